package keyexchange

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fishcrypt/internal/crypto"
	"fishcrypt/internal/domain"
	"fishcrypt/internal/protocol/dh1080"
	"fishcrypt/internal/util/memzero"
)

// Options tune session handling.
type Options struct {
	// DefaultVariant is used when Initiate is called without one.
	DefaultVariant domain.ExchangeVariant
	// SessionTTL bounds how long an unanswered INIT stays pending. Zero
	// disables expiry.
	SessionTTL time.Duration
}

// DefaultOptions returns the settings used when no configuration is given.
func DefaultOptions() Options {
	return Options{DefaultVariant: domain.VariantCBC, SessionTTL: 10 * time.Minute}
}

// Service performs DH1080 exchanges and writes completed keys to the key
// store.
type Service struct {
	keys     domain.KeyStore
	sessions domain.SessionStore
	opts     Options
	rand     io.Reader
	now      func() time.Time
	log      *zap.Logger

	mu sync.Mutex
}

// New constructs a key-exchange Service.
func New(keys domain.KeyStore, sessions domain.SessionStore, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.DefaultVariant == "" {
		opts.DefaultVariant = domain.VariantCBC
	}
	return &Service{
		keys:     keys,
		sessions: sessions,
		opts:     opts,
		rand:     rand.Reader,
		now:      time.Now,
		log:      log.Named("keyx"),
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithRand replaces the exponent source. Intended for tests.
func (s *Service) WithRand(r io.Reader) *Service {
	s.rand = r
	return s
}

// Initiate starts an exchange with target and returns the INIT line to send.
// Any pending session for target is replaced.
func (s *Service) Initiate(target domain.Target, variant domain.ExchangeVariant) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if variant == "" {
		variant = s.opts.DefaultVariant
	}
	if !variant.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedVariant, variant)
	}

	kp, err := dh1080.GenerateKeyPair(s.rand)
	if err != nil {
		return "", err
	}
	sess := domain.KeyExchangeSession{
		ID:         uuid.NewString(),
		Target:     target.Normalize(),
		Private:    kp.Private.Bytes(),
		Public:     kp.Public.Bytes(),
		Variant:    variant,
		State:      domain.StateInitiated,
		CreatedUTC: s.now().Unix(),
	}
	defer memzero.Zero(sess.Private)

	line := dh1080.FormatToken(initKind(variant), kp.Public)
	sess.State = domain.StateAwaitingPeer
	if err := s.sessions.SaveSession(sess); err != nil {
		return "", err
	}
	s.log.Info("key exchange initiated",
		zap.String("target", sess.Target.String()),
		zap.String("session", sess.ID),
		zap.String("variant", string(variant)))
	return line, nil
}

// HandleLine parses a DH1080 token received from target and dispatches it.
func (s *Service) HandleLine(target domain.Target, line string) (domain.ExchangeOutcome, error) {
	tok, err := dh1080.ParseToken(line)
	if err != nil {
		return domain.ExchangeOutcome{}, err
	}
	switch tok.Kind {
	case dh1080.KindFinish:
		return s.OnReceiveFinish(target, tok.Public, tok.Compat || tok.CBCWord)
	default:
		variant := domain.VariantPlain
		if tok.WantsCBC() {
			variant = domain.VariantCBC
		}
		return s.OnReceiveInit(target, tok.Public, variant)
	}
}

// OnReceiveInit answers a peer's INIT. A live pending session for target
// (both sides initiated at once) lends its exponent so both ends agree on
// one key, and the key is CBC only if both INITs asked for CBC; otherwise a
// fresh exponent is drawn and the peer's variant decides the mode.
func (s *Service) OnReceiveInit(
	target domain.Target,
	peerPublic *big.Int,
	variant domain.ExchangeVariant,
) (domain.ExchangeOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := target.Normalize()
	if !variant.Valid() {
		return domain.ExchangeOutcome{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedVariant, variant)
	}
	pending, havePending, err := s.livePending(t)
	if err != nil {
		return domain.ExchangeOutcome{}, err
	}
	if err := dh1080.ValidatePublic(peerPublic); err != nil {
		return domain.ExchangeOutcome{}, s.fail(t, pending.ID, err)
	}

	// When both sides initiated, each answers the other's INIT. CBC needs
	// both requests to agree so the two ends store the same mode.
	agreed := variant
	if havePending && pending.Variant != domain.VariantCBC {
		agreed = domain.VariantPlain
	}

	var kp dh1080.KeyPair
	if havePending {
		kp.Private = new(big.Int).SetBytes(pending.Private)
		kp.Public = new(big.Int).SetBytes(pending.Public)
		memzero.Zero(pending.Private)
	} else {
		if kp, err = dh1080.GenerateKeyPair(s.rand); err != nil {
			return domain.ExchangeOutcome{}, err
		}
	}
	defer kp.Private.SetInt64(0)

	mode := domain.ModeECB
	if agreed == domain.VariantCBC {
		mode = domain.ModeCBC
	}
	if err := s.complete(t, kp.Private, peerPublic, mode); err != nil {
		return domain.ExchangeOutcome{}, err
	}

	reply := dh1080.FormatToken(dh1080.KindFinish, kp.Public)
	if agreed == domain.VariantCBC {
		reply += " CBC"
	}
	s.log.Info("key exchange answered",
		zap.String("target", t.String()),
		zap.Bool("simultaneous", havePending),
		zap.Stringer("mode", mode))
	return domain.ExchangeOutcome{Reply: reply, Completed: true, Mode: mode}, nil
}

// OnReceiveFinish completes the pending session for target.
// peerSupportsCBC is whether the FINISH advertised the CBC variant; the key
// is CBC only if our INIT asked for it too.
func (s *Service) OnReceiveFinish(
	target domain.Target,
	peerPublic *big.Int,
	peerSupportsCBC bool,
) (domain.ExchangeOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := target.Normalize()
	sess, ok, err := s.livePending(t)
	if err != nil {
		return domain.ExchangeOutcome{}, err
	}
	if !ok {
		s.log.Debug("unexpected finish discarded", zap.String("target", t.String()))
		return domain.ExchangeOutcome{}, fmt.Errorf("%w: %s", domain.ErrSessionMismatch, t)
	}
	defer memzero.Zero(sess.Private)

	if err := dh1080.ValidatePublic(peerPublic); err != nil {
		return domain.ExchangeOutcome{}, s.fail(t, sess.ID, err)
	}

	mode := domain.ModeECB
	if sess.Variant == domain.VariantCBC && peerSupportsCBC {
		mode = domain.ModeCBC
	}
	priv := new(big.Int).SetBytes(sess.Private)
	defer priv.SetInt64(0)
	if err := s.complete(t, priv, peerPublic, mode); err != nil {
		return domain.ExchangeOutcome{}, err
	}
	s.log.Info("key exchange completed",
		zap.String("target", t.String()),
		zap.String("session", sess.ID),
		zap.Stringer("mode", mode))
	return domain.ExchangeOutcome{Completed: true, Mode: mode}, nil
}

// Pending returns the live pending session for target, if any.
func (s *Service) Pending(target domain.Target) (domain.KeyExchangeSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok, err := s.livePending(target.Normalize())
	memzero.Zero(sess.Private)
	sess.Private = nil
	return sess, ok, err
}

// livePending loads the session for t, dropping it if it has expired or is
// not waiting for a peer.
func (s *Service) livePending(t domain.Target) (domain.KeyExchangeSession, bool, error) {
	sess, ok, err := s.sessions.LoadSession(t)
	if err != nil || !ok {
		return domain.KeyExchangeSession{}, false, err
	}
	stale := sess.State != domain.StateAwaitingPeer
	if ttl := s.opts.SessionTTL; ttl > 0 && s.now().Sub(time.Unix(sess.CreatedUTC, 0)) > ttl {
		stale = true
	}
	if stale {
		s.log.Debug("dropping stale session",
			zap.String("target", t.String()),
			zap.String("session", sess.ID),
			zap.String("state", string(sess.State)))
		memzero.Zero(sess.Private)
		if err := s.sessions.DeleteSession(t); err != nil {
			return domain.KeyExchangeSession{}, false, err
		}
		return domain.KeyExchangeSession{}, false, nil
	}
	return sess, true, nil
}

func (s *Service) complete(t domain.Target, private, peer *big.Int, mode domain.CipherMode) error {
	key, err := dh1080.DeriveKey(private, peer)
	if err != nil {
		return err
	}
	if err := s.keys.SetKey(t, domain.SymmetricKey{Material: key, Mode: mode}); err != nil {
		return fmt.Errorf("store exchanged key for %s: %w", t, err)
	}
	s.log.Debug("stored exchanged key",
		zap.String("target", t.String()),
		zap.String("fingerprint", crypto.Fingerprint(key)))
	return s.sessions.DeleteSession(t)
}

// fail drops the session for t and returns cause.
func (s *Service) fail(t domain.Target, id string, cause error) error {
	s.log.Warn("key exchange failed",
		zap.String("target", t.String()),
		zap.String("session", id),
		zap.String("state", string(domain.StateFailed)),
		zap.Error(cause))
	if err := s.sessions.DeleteSession(t); err != nil {
		return fmt.Errorf("%w (dropping session: %v)", cause, err)
	}
	return cause
}

func initKind(v domain.ExchangeVariant) dh1080.Kind {
	if v == domain.VariantCBC {
		return dh1080.KindInitCBC
	}
	return dh1080.KindInit
}

// Compile-time assertion that Service implements domain.KeyExchangeService.
var _ domain.KeyExchangeService = (*Service)(nil)
