package ir

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswersHashDeterminism(t *testing.T) {
	answers := []IRArray{
		{IRString("alice"), IRString("carol")},
		{IRString("bob"), IRString("dave")},
	}

	h1, err := AnswersHash(answers)
	require.NoError(t, err)
	h2, err := AnswersHash(answers)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
	_, err = hex.DecodeString(h1)
	assert.NoError(t, err)
}

func TestAnswersHashIsOrderSensitive(t *testing.T) {
	a := IRArray{IRInt(1)}
	b := IRArray{IRInt(2)}
	assert.NotEqual(t, MustAnswersHash([]IRArray{a, b}), MustAnswersHash([]IRArray{b, a}))
}

func TestAnswersHashEmpty(t *testing.T) {
	assert.Equal(t, MustAnswersHash(nil), MustAnswersHash([]IRArray{}))
	assert.NotEqual(t, MustAnswersHash(nil), MustAnswersHash([]IRArray{{}}))
}

func TestFactID(t *testing.T) {
	args := IRArray{IRString("alice"), IRString("bob")}
	assert.Equal(t, MustFactID("parent", args), MustFactID("parent", args))
	assert.NotEqual(t, MustFactID("parent", args), MustFactID("child", args))
	assert.NotEqual(t, MustFactID("parent", args), MustFactID("parent", IRArray{IRString("bob"), IRString("alice")}))
}

func TestDomainSeparation(t *testing.T) {
	data := []byte(`[]`)
	assert.NotEqual(t, hashWithDomain(DomainAnswers, data), hashWithDomain(DomainFact, data))
	assert.Equal(t, "kanren/answers/v1", DomainAnswers)
	assert.Equal(t, "kanren/fact/v1", DomainFact)
}

func TestHashWithDomainNullSeparator(t *testing.T) {
	// "ab" + 0x00 + "c" must differ from "a" + 0x00 + "bc".
	assert.NotEqual(t, hashWithDomain("ab", []byte("c")), hashWithDomain("a", []byte("bc")))
}

func TestHashErrors(t *testing.T) {
	_, err := AnswersHash([]IRArray{{nil}})
	assert.Error(t, err)
	_, err = FactID("r", IRArray{nil})
	assert.Error(t, err)

	assert.Panics(t, func() { MustAnswersHash([]IRArray{{nil}}) })
	assert.Panics(t, func() { MustFactID("r", IRArray{nil}) })
}
