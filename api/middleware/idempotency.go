package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shery7378/multifront/api/responses"
	"github.com/shery7378/multifront/api/validators"
	pkgerrors "github.com/shery7378/multifront/pkg/errors"
	"github.com/shery7378/multifront/pkg/logger"
	pkgredis "github.com/shery7378/multifront/pkg/redis"
)

const idempotencyHeader = "Idempotency-Key"

// guardedRoutes lists the writes that must run at most once per key.
var guardedRoutes = map[string]bool{
	http.MethodPost + " /api/v1/checkout":           true,
	http.MethodPut + " /api/v1/cart/recovery-token": true,
}

// storedResponse is what a key resolves to. A record without a status is a
// reservation held by a request that has not finished yet.
type storedResponse struct {
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// releasedStatuses free the key instead of recording the response.
var releasedStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusServiceUnavailable:  true,
}

func (s storedResponse) inFlight() bool { return s.Status == 0 }

// Idempotency makes guarded writes replayable. The first request with a given
// Idempotency-Key runs; repeats get the recorded response, and a repeat that
// arrives while the first is still running is refused with a conflict.
// Internal and dependency failures ran nothing downstream and are not recorded,
// so the shopper can retry with the same key. Throttled requests are released
// the same way. A 502 from a partially placed checkout is recorded like any
// other outcome.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || !isGuarded(r) {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if clientKey == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, validators.MaxBodyBytes))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					responses.WriteError(ctx, logg, w, pkgerrors.Newf(pkgerrors.CodeValidation, "request body exceeds %d bytes", tooLarge.Limit))
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := store.IdempotencyKey(idempotencyScope(r), clientKey)
			fingerprint := fingerprintOf(body)

			reservation, _ := json.Marshal(storedResponse{Fingerprint: fingerprint})
			won, err := store.SetNX(ctx, key, string(reservation), ttl)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserving idempotency key"))
				return
			}
			if !won {
				replay(ctx, w, store, key, fingerprint, logg)
				return
			}

			capture := &captureWriter{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			// the client may have hung up once the response is flushed
			bg := context.WithoutCancel(ctx)
			if releasedStatuses[capture.statusCode()] {
				if err := store.Del(bg, key); err != nil {
					logFailure(bg, logg, "releasing idempotency reservation", err)
				}
				return
			}
			// overwrite in place so the key is never free between reservation and record
			record, _ := json.Marshal(storedResponse{
				Fingerprint: fingerprint,
				Status:      capture.statusCode(),
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
			})
			if err := store.Set(bg, key, string(record), ttl); err != nil {
				logFailure(bg, logg, "recording idempotent response", err)
			}
		})
	}
}

func replay(ctx context.Context, w http.ResponseWriter, store pkgredis.IdempotencyStore, key, fingerprint string, logg *logger.Logger) {
	raw, err := store.Get(ctx, key)
	switch {
	case errors.Is(err, redis.Nil):
		// the first request finished between our SetNX and Get without recording
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request already in progress"))
		return
	case err != nil:
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading idempotency record"))
		return
	}

	var stored storedResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding idempotency record"))
		return
	}
	if stored.Fingerprint != fingerprint {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
		return
	}
	if stored.inFlight() {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request already in progress"))
		return
	}

	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(stored.Status)
	_, _ = w.Write(stored.Body)
}

// isGuarded matches on the raw path because group middleware runs before chi
// has resolved the route pattern.
func isGuarded(r *http.Request) bool {
	path := r.URL.Path
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return guardedRoutes[r.Method+" "+path]
}

// idempotencyScope keeps keys from colliding across carts and shoppers.
func idempotencyScope(r *http.Request) string {
	ctx := r.Context()
	return strings.Join([]string{SessionIDFromContext(ctx), UserIDFromContext(ctx), r.Method, r.URL.Path}, "|")
}

func fingerprintOf(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (c *captureWriter) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *captureWriter) statusCode() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}

func logFailure(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg != nil {
		logg.Error(ctx, msg, err)
	}
}
