// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id cost profile for password storage. Hashes produced with an
// older profile still verify and are transparently upgraded on login.
var hashProfile = argonProfile{
	memory:  64 * 1024,
	passes:  1,
	threads: 4,
	keyLen:  32,
	saltLen: 16,
}

type argonProfile struct {
	memory  uint32
	passes  uint32
	threads uint8
	keyLen  uint32
	saltLen uint32
}

func (p argonProfile) key(password string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(password),
		salt,
		p.passes,
		p.memory,
		p.threads,
		p.keyLen,
	)
}

// HashPassword derives an Argon2id hash in PHC string format.
func HashPassword(password string) (string, error) {
	salt := make([]byte, hashProfile.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := hashProfile.key(password, salt)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		hashProfile.memory,
		hashProfile.passes,
		hashProfile.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// VerifyPassword checks a password against a PHC-encoded hash using the
// parameters embedded in the hash itself.
func VerifyPassword(password, encodedHash string) (bool, error) {
	profile, salt, want, err := parseHash(encodedHash)
	if err != nil {
		return false, err
	}

	got := profile.key(password, salt)
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// VerifyPasswordWithRehash verifies the password and, when it was
// hashed under a stale cost profile, returns a replacement hash to be
// persisted by the caller. An empty string means no upgrade needed.
func VerifyPasswordWithRehash(
	password, encodedHash string,
) (bool, string, error) {
	valid, err := VerifyPassword(password, encodedHash)
	if err != nil || !valid {
		return false, "", err
	}

	if profile, _, _, perr := parseHash(encodedHash); perr == nil &&
		profile.memory == hashProfile.memory &&
		profile.passes == hashProfile.passes &&
		profile.threads == hashProfile.threads &&
		profile.keyLen == hashProfile.keyLen {
		return true, "", nil
	}

	upgraded, err := HashPassword(password)
	if err != nil {
		// password already verified; a failed upgrade is not fatal
		return true, "", nil
	}
	return true, upgraded, nil
}

// decoyHash is verified in place of a real hash when the account does
// not exist, so lookup misses cost the same as wrong passwords.
var decoyHash = func() string {
	h, err := HashPassword("decoy-credential-6f2a")
	if err != nil {
		panic(fmt.Sprintf("security: decoy hash: %v", err))
	}
	return h
}()

// VerifyPasswordTimingSafe accepts a possibly-nil stored hash and
// always performs a full Argon2id derivation before answering.
func VerifyPasswordTimingSafe(
	password string,
	encodedHash *string,
) (bool, string, error) {
	if encodedHash == nil || *encodedHash == "" {
		_, _, _ = VerifyPasswordWithRehash(password, decoyHash)
		return false, "", nil
	}
	return VerifyPasswordWithRehash(password, *encodedHash)
}

func parseHash(encodedHash string) (argonProfile, []byte, []byte, error) {
	var p argonProfile

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, fmt.Errorf("malformed argon2id hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("hash version: %w", err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	_, err := fmt.Sscanf(
		parts[3],
		"m=%d,t=%d,p=%d",
		&p.memory,
		&p.passes,
		&p.threads,
	)
	if err != nil {
		return p, nil, nil, fmt.Errorf("hash params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode key: %w", err)
	}

	//nolint:gosec // G115: derived keys are at most a few dozen bytes
	p.keyLen = uint32(len(key))
	return p, salt, key, nil
}

// GenerateSecureToken returns length random bytes, URL-safe base64 encoded.
func GenerateSecureToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

func GenerateRefreshToken() (string, error) {
	return GenerateSecureToken(32)
}

// HashToken produces the hex SHA-256 digest stored server side in
// place of the raw refresh token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func CompareTokenHash(token, hash string) bool {
	digest := HashToken(token)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(hash)) == 1
}
