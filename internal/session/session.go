// Package session provides the per-client session identity used to scope history.
package session

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/rewriter/internal/types"
)

// StorageKey is the KV key holding the session token.
const StorageKey = "rewriter_session"

const (
	tokenPrefix  = "session_"
	randomLength = 13
	base36       = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Provider returns this client's session id, creating and persisting it on first use.
type Provider struct {
	kv  KV
	now func() time.Time

	mu     sync.Mutex
	cached types.SessionID
}

// NewProvider returns a Provider backed by kv.
func NewProvider(kv KV) *Provider {
	return &Provider{kv: kv, now: time.Now}
}

// GetOrCreate returns the stored session id, generating one if none exists.
func (p *Provider) GetOrCreate() (types.SessionID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached, nil
	}

	stored, found, err := p.kv.Get(StorageKey)
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	if found && strings.TrimSpace(stored) != "" {
		p.cached = types.SessionID(stored)
		return p.cached, nil
	}

	id, err := NewID(p.now())
	if err != nil {
		return "", err
	}
	if err := p.kv.Set(StorageKey, id.String()); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}
	p.cached = id
	return id, nil
}

// NewID builds a token of the form session_<unix millis>_<13 base36 chars>.
func NewID(now time.Time) (types.SessionID, error) {
	suffix, err := randomBase36(randomLength)
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return types.SessionID(tokenPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "_" + suffix), nil
}

// Valid reports whether id has the shape produced by NewID.
func Valid(id types.SessionID) bool {
	rest, ok := strings.CutPrefix(id.String(), tokenPrefix)
	if !ok {
		return false
	}
	millis, suffix, ok := strings.Cut(rest, "_")
	if !ok || len(suffix) != randomLength {
		return false
	}
	if _, err := strconv.ParseInt(millis, 10, 64); err != nil {
		return false
	}
	for _, r := range suffix {
		if !strings.ContainsRune(base36, r) {
			return false
		}
	}
	return true
}

func randomBase36(n int) (string, error) {
	limit := big.NewInt(int64(len(base36)))
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		sb.WriteByte(base36[v.Int64()])
	}
	return sb.String(), nil
}
