package service

import "github.com/prometheus/client_golang/prometheus"

var (
	purchaseIntents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "purchase_intents_total", Help: "Checkout attempts by outcome"},
		[]string{"result"},
	)
	purchaseConfirmations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "purchase_confirmations_total", Help: "Payment confirmations by outcome"},
		[]string{"result"},
	)
	enrollmentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "course_enrollments_total", Help: "Enrollments created"},
	)
)

func init() { prometheus.MustRegister(purchaseIntents, purchaseConfirmations, enrollmentsCreated) }
