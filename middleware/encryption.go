package middleware

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// Encrypt encrypts plaintext with AES-CBC using a key derived from the
// passphrase. The random IV is prepended to the ciphertext and the whole
// blob is base64 encoded.
func Encrypt(plaintext, key string) (string, error) {
	block, err := aes.NewCipher(hashKey(key))
	if err != nil {
		return "", err
	}

	padded := PKCS7Padding([]byte(plaintext), aes.BlockSize)

	iv, err := GenerateRandomBytes(aes.BlockSize)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return base64.StdEncoding.EncodeToString(append(iv, ciphertext...)), nil
}

// Decrypt reverses Encrypt.
func Decrypt(ciphertext, key string) (string, error) {
	fullCiphertext, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("base64 decoding failed: %w", err)
	}

	block, err := aes.NewCipher(hashKey(key))
	if err != nil {
		return "", fmt.Errorf("creating cipher failed: %w", err)
	}

	if len(fullCiphertext) < aes.BlockSize {
		return "", fmt.Errorf("ciphertext too short: %d < %d", len(fullCiphertext), aes.BlockSize)
	}
	if len(fullCiphertext)%aes.BlockSize != 0 {
		return "", errors.New("ciphertext is not a multiple of the block size")
	}

	iv := fullCiphertext[:aes.BlockSize]
	ciphertextBytes := fullCiphertext[aes.BlockSize:]

	plaintext := make([]byte, len(ciphertextBytes))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertextBytes)

	unpadded, err := PKCS7UnPadding(plaintext)
	if err != nil {
		return "", fmt.Errorf("PKCS7 unpadding failed: %w", err)
	}

	return string(unpadded), nil
}

// PKCS7Padding adds PKCS7 padding to the input slice.
func PKCS7Padding(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padtext := bytes.Repeat([]byte{byte(padding)}, padding)
	return append(data, padtext...)
}

// PKCS7UnPadding removes PKCS7 padding from the input slice.
func PKCS7UnPadding(data []byte) ([]byte, error) {
	length := len(data)
	if length == 0 {
		return nil, errors.New("empty data")
	}
	unpadding := int(data[length-1])

	if unpadding == 0 || unpadding > length {
		return nil, fmt.Errorf("invalid padding size: %d", unpadding)
	}

	return data[:(length - unpadding)], nil
}

// hashKey derives a fixed-size AES key from an arbitrary passphrase.
func hashKey(key string) []byte {
	hash := sha256.Sum256([]byte(key))
	return hash[:]
}

// GenerateRandomBytes generates random bytes of the specified length.
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
