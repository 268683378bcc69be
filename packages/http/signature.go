package http

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
)

// Signature is either a DigestSignature or a PlainSignature.
type Signature interface {
	// Content returns the value sent to the server
	Content() string
}

// Digester turns a payload into a hex digest
type Digester func(data []byte) string

// DigestSignature appends "&signature=<digest of Secret>" to the target.
// Hash defaults to MD5Hex.
type DigestSignature struct {
	Secret string
	Hash   Digester
}

// MD5 is shorthand for a DigestSignature over secret using MD5Hex
func MD5(secret string) DigestSignature {
	return DigestSignature{Secret: secret, Hash: MD5Hex}
}

func (s DigestSignature) Content() string {
	hash := s.Hash
	if hash == nil {
		hash = MD5Hex
	}
	return hash([]byte(s.Secret))
}

// PlainSignature is sent verbatim in the "Signature" header
type PlainSignature struct {
	Value string
}

func (s PlainSignature) Content() string {
	return s.Value
}

// MD5Hex returns the lowercase hex MD5 of data
func MD5Hex(data []byte) string {
	h := md5.New()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SHA256Hex returns the lowercase hex SHA-256 of data
func SHA256Hex(data []byte) string {
	h := sha256.New()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
