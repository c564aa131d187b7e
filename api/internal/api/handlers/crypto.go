package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"todoapp/api/internal/core/domain"
)

// ClientKeyHeader carries the base64 client identifier of a sealed request.
const ClientKeyHeader = "X-Client-Public-Key"

// ByteArray is a byte slice that travels as a JSON array of numbers, the
// format browser clients produce from a Uint8Array. A base64 string is also
// accepted on input.
type ByteArray []byte

func (b ByteArray) MarshalJSON() ([]byte, error) {
	nums := make([]int, len(b))
	for i, v := range b {
		nums[i] = int(v)
	}
	return json.Marshal(nums)
}

func (b *ByteArray) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("byte array: invalid base64: %w", err)
		}
		*b = raw
		return nil
	}

	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return err
	}
	out := make(ByteArray, len(nums))
	for i, n := range nums {
		if n < 0 || n > 255 {
			return errors.New("byte array: element out of range")
		}
		out[i] = byte(n)
	}
	*b = out
	return nil
}

type KeyExchangeRequest struct {
	PublicKey ByteArray `json:"public_key" validate:"required"`
}

type KeyExchangeResponse struct {
	ServerPublicKey ByteArray `json:"server_public_key"`
}

// SealedPayload wraps a request body encrypted under a session key.
type SealedPayload struct {
	Payload string `json:"payload" validate:"required"`
}

type CryptoHandler struct {
	Service domain.CryptoService
	Logger  *slog.Logger
}

func NewCryptoHandler(service domain.CryptoService, logger *slog.Logger) *CryptoHandler {
	return &CryptoHandler{
		Service: service,
		Logger:  logger,
	}
}

// Exchange handles POST /api/crypto/exchange.
// The "public key" is only a lookup handle; the response carries the freshly
// issued session key itself.
func (h *CryptoHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	var req KeyExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message": "Invalid JSON payload"}`, http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	key, err := h.Service.EstablishSession(req.PublicKey)
	if err != nil {
		h.Logger.Error("Key exchange failed", slog.Any("error", err))
		http.Error(w, `{"message": "Key exchange failed"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, KeyExchangeResponse{ServerPublicKey: key})
	for i := range key {
		key[i] = 0
	}
}

// Revoke handles DELETE /api/crypto/exchange.
func (h *CryptoHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	var req KeyExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message": "Invalid JSON payload"}`, http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	if !h.Service.RevokeSession(req.PublicKey) {
		HandleError(w, r, domain.ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UnsealBody decrypts {"payload": envelope} bodies sent with ClientKeyHeader
// and hands the plaintext to next as the request body. Requests without the
// header pass through untouched.
func (h *CryptoHandler) UnsealBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(ClientKeyHeader)
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		clientID, err := base64.StdEncoding.DecodeString(header)
		if err != nil {
			http.Error(w, `{"message": "Invalid client key header"}`, http.StatusBadRequest)
			return
		}

		var sealed SealedPayload
		if err := json.NewDecoder(r.Body).Decode(&sealed); err != nil {
			http.Error(w, `{"message": "Invalid JSON payload"}`, http.StatusBadRequest)
			return
		}

		if err := validate.Struct(sealed); err != nil {
			HandleError(w, r, err)
			return
		}

		plaintext, err := h.Service.DecryptWithSession(sealed.Payload, clientID)
		if err != nil {
			h.Logger.Warn("Sealed request rejected",
				slog.String("path", r.URL.Path),
				slog.Any("error", err))
			HandleError(w, r, err)
			return
		}

		r.Body = io.NopCloser(strings.NewReader(plaintext))
		r.ContentLength = int64(len(plaintext))
		r.Header.Del(ClientKeyHeader)
		next.ServeHTTP(w, r)
	})
}
