package tokenutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleToken() string {
	header := "eyJhbGciOiJIUzI1NiJ9"     // {"alg":"HS256"}
	payload := "eyJzdWIiOiIxMjMifQ"      // {"sub":"123"}
	sig := "ccccccccccccccc"
	return header + "." + payload + "." + sig
}

func TestFindBearerToken(t *testing.T) {
	tok := sampleToken()
	found, ok := FindBearerToken("Authorization: Bearer " + tok)
	require.True(t, ok)
	require.Equal(t, tok, found)

	_, ok = FindBearerToken("no token here")
	require.False(t, ok)
}

func TestDecodeBearerToken(t *testing.T) {
	tok := sampleToken()
	header, payload := DecodeBearerToken(tok)
	require.Equal(t, "HS256", header["alg"])
	require.Equal(t, "123", payload["sub"])
}

func TestDecodeBearerTokenMalformed(t *testing.T) {
	header, payload := DecodeBearerToken("not-json.also-not-json.sig")
	require.Nil(t, header)
	require.Nil(t, payload)
}

func TestRedactBearerToken(t *testing.T) {
	tok := "aaa.bbb.ccccccccccccccc"
	require.Equal(t, "aaa.bbb.<redacted:15b>", RedactBearerToken(tok))
}

func TestRedactBearerTokenTooFewSegments(t *testing.T) {
	require.Equal(t, "aaa.bbb", RedactBearerToken("aaa.bbb"))
}
