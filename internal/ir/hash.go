package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes. The version suffix allows a future
// algorithm change without colliding with old hashes.
const (
	DomainAnswers = "kanren/answers/v1"
	DomainFact    = "kanren/fact/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// AnswersHash fingerprints an ordered answer list. Two runs of a
// deterministic program produce the same hash.
func AnswersHash(answers []IRArray) (string, error) {
	list := make(IRArray, len(answers))
	for i, a := range answers {
		list[i] = a
	}
	canonical, err := MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("AnswersHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainAnswers, canonical), nil
}

// FactID computes the content address of one fact row.
func FactID(relation string, args IRArray) (string, error) {
	obj := IRObject{
		"relation": IRString(relation),
		"args":     args,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("FactID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainFact, canonical), nil
}

// MustAnswersHash is like AnswersHash but panics on error.
// Use only in tests or when answers are known to be valid.
func MustAnswersHash(answers []IRArray) string {
	h, err := AnswersHash(answers)
	if err != nil {
		panic(err)
	}
	return h
}

// MustFactID is like FactID but panics on error.
// Use only in tests or when args are known to be valid.
func MustFactID(relation string, args IRArray) string {
	id, err := FactID(relation, args)
	if err != nil {
		panic(err)
	}
	return id
}
