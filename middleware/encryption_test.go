package middleware

import (
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	originalText := "this_is_a_test_refresh_token_12345"
	key := "your_test_key_here"

	encrypted, err := Encrypt(originalText, key)
	if err != nil {
		t.Fatalf("Encryption failed: %v", err)
	}

	decrypted, err := Decrypt(encrypted, key)
	if err != nil {
		t.Fatalf("Decryption failed: %v", err)
	}

	if decrypted != originalText {
		t.Errorf("Decrypted text does not match original. Got %s, want %s", decrypted, originalText)
	}
}

func TestEncryptionUsesRandomIV(t *testing.T) {
	plaintext := "This is a secret message"
	key := "my-secret-key"

	ciphertext1, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("First encryption failed: %v", err)
	}

	ciphertext2, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Second encryption failed: %v", err)
	}

	// The random IV should make repeated encryptions differ.
	if ciphertext1 == ciphertext2 {
		t.Error("Expected different ciphertexts for the same plaintext, got identical ciphertexts")
	}
}

func TestDecryptionWithWrongKey(t *testing.T) {
	plaintext := "This is a secret message"
	correctKey := "correct-secret-key"
	wrongKey := "wrong-secret-key"

	ciphertext, err := Encrypt(plaintext, correctKey)
	if err != nil {
		t.Fatalf("Encryption failed: %v", err)
	}

	decrypted, err := Decrypt(ciphertext, wrongKey)
	if err == nil && decrypted == plaintext {
		t.Error("Expected decryption with wrong key to fail, but it recovered the plaintext")
	}
}

func TestDecryptRejectsMalformedInput(t *testing.T) {
	key := "some-key"

	if _, err := Decrypt("not base64 !!!", key); err == nil {
		t.Error("Expected error for non-base64 input")
	}

	// Valid base64 but shorter than one AES block.
	if _, err := Decrypt("c2hvcnQ=", key); err == nil {
		t.Error("Expected error for truncated ciphertext")
	}
}

func TestPaddingFunctions(t *testing.T) {
	testCases := []struct {
		name      string
		input     []byte
		blockSize int
	}{
		{"Empty input", []byte{}, 16},
		{"Input smaller than block size", []byte{1, 2, 3}, 16},
		{"Input equal to block size", []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}, 16},
		{"Input larger than block size", []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17}, 16},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			padded := PKCS7Padding(tc.input, tc.blockSize)
			if len(padded)%tc.blockSize != 0 {
				t.Errorf("PKCS7Padding failed: padded length %d is not a multiple of block size %d", len(padded), tc.blockSize)
			}

			unpadded, err := PKCS7UnPadding(padded)
			if err != nil {
				t.Errorf("PKCS7UnPadding failed: %v", err)
			}

			if string(unpadded) != string(tc.input) {
				t.Errorf("PKCS7UnPadding failed: expected %v, got %v", tc.input, unpadded)
			}
		})
	}
}

func TestUnpaddingRejectsBadPadding(t *testing.T) {
	if _, err := PKCS7UnPadding(nil); err == nil {
		t.Error("Expected error for empty data")
	}
	if _, err := PKCS7UnPadding([]byte{1, 2, 17}); err == nil {
		t.Error("Expected error for padding larger than data")
	}
	if _, err := PKCS7UnPadding([]byte{1, 2, 0}); err == nil {
		t.Error("Expected error for zero padding byte")
	}
}
