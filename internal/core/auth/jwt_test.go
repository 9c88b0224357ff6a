package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "studio", TTL: time.Hour}

	tok, exp, err := j.Issue("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", c.UID)
	assert.Equal(t, "studio", c.Issuer)
}

func TestParseRejects(t *testing.T) {
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "studio", TTL: time.Hour}
	tok, _, err := j.Issue("user-1")
	require.NoError(t, err)

	other := &JWTer{Secret: []byte("different"), Issuer: "studio", TTL: time.Hour}
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIss := &JWTer{Secret: []byte("s3cret"), Issuer: "elsewhere", TTL: time.Hour}
	_, err = wrongIss.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = j.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseExpired(t *testing.T) {
	past := time.Now().Add(-3 * time.Hour)
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "studio", TTL: time.Hour, Now: func() time.Time { return past }}
	tok, _, err := j.Issue("user-1")
	require.NoError(t, err)

	j.Now = nil
	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueRequiresUID(t *testing.T) {
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "studio", TTL: time.Hour}
	_, _, err := j.Issue("")
	assert.Error(t, err)
}
