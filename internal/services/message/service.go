package message

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"fishcrypt/internal/domain"
	"fishcrypt/internal/protocol/cbc"
	"fishcrypt/internal/protocol/ecb"
	"fishcrypt/internal/protocol/wire"
)

// Options tune how lines are decoded and encoded.
type Options struct {
	// AutoLearn retries a failed decode in the other mode.
	AutoLearn bool
	// PersistLearned writes a learned mode back to the key store.
	PersistLearned bool
	// MarkBroken annotates a truncated trailing ECB group with BrokenMarker.
	MarkBroken   bool
	BrokenMarker string
	// PlainPrefix on outgoing text sends the rest unencrypted.
	PlainPrefix string
	// DecryptedPrefix is prepended to decrypted text.
	DecryptedPrefix string
}

// DefaultOptions returns the settings used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		AutoLearn:      true,
		PersistLearned: true,
		MarkBroken:     true,
		BrokenMarker:   ecb.DefaultBrokenMarker,
		PlainPrefix:    "+p ",
	}
}

// Service is the message dispatcher.
//
// Calls are serialised by an internal lock, so one line is fully handled
// before the next even when the host delivers events concurrently.
type Service struct {
	keys domain.KeyStore
	opts Options
	rand io.Reader
	log  *zap.Logger

	mu    sync.Mutex
	learn map[domain.Target]*modeState
}

// New constructs a dispatcher over keys. A nil logger disables logging.
func New(keys domain.KeyStore, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		keys:  keys,
		opts:  opts,
		rand:  rand.Reader,
		log:   log.Named("message"),
		learn: make(map[domain.Target]*modeState),
	}
}

// WithRand replaces the IV source. Intended for tests.
func (s *Service) WithRand(r io.Reader) *Service {
	s.rand = r
	return s
}

// DecodeIncoming decrypts raw if it is an encrypted line for a target with
// an enabled key. Anything else is returned as-is with Encrypted false.
func (s *Service) DecodeIncoming(target domain.Target, raw string) (domain.Incoming, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := target.Normalize()
	passthrough := domain.Incoming{Text: raw}

	body, action := wire.UnwrapAction(raw)
	switch wire.Classify(body) {
	case wire.FormatECB, wire.FormatCBC:
	default:
		return passthrough, nil
	}

	key, ok, err := s.activeKey(t)
	if err != nil {
		return domain.Incoming{}, err
	}
	if !ok {
		return passthrough, nil
	}

	primary := key.Mode
	var state *modeState
	if s.opts.AutoLearn {
		state = s.stateFor(t, key.Mode)
		primary = state.primary
	}

	mode := primary
	pt, err := s.decodeWith(mode, key.Material, body)
	ev := primaryOK
	if err != nil && s.opts.AutoLearn {
		mode = primary.Other()
		var ferr error
		pt, ferr = s.decodeWith(mode, key.Material, body)
		if ferr == nil {
			ev, err = fallbackOK, nil
		} else {
			ev = bothFailed
		}
	}

	learned := false
	if state != nil {
		next, flipped := state.next(ev)
		if flipped {
			if err := s.persistLearned(t, key, &next); err != nil {
				return domain.Incoming{}, err
			}
			s.logLearned(t, next.primary)
		} else if ev == fallbackOK {
			s.log.Debug("holding confirmed cipher mode",
				zap.String("target", t.String()),
				zap.Stringer("mode", next.primary))
		}
		*state = next
		learned = flipped
	}

	if err != nil {
		s.log.Debug("decode failed",
			zap.String("target", t.String()),
			zap.Stringer("mode", primary),
			zap.Error(err))
		return domain.Incoming{}, fmt.Errorf("%w: %s line for %s: %v", domain.ErrDecryptionFailed, primary, t, err)
	}

	text := s.opts.DecryptedPrefix + string(pt)
	if action {
		text = wire.WrapAction(text)
	}
	s.log.Debug("decoded line",
		zap.String("target", t.String()),
		zap.Stringer("mode", mode),
		zap.Bool("learned", learned))
	return domain.Incoming{
		Text:      text,
		Encrypted: true,
		Mode:      mode,
		Learned:   learned,
		Action:    action,
	}, nil
}

// EncodeOutgoing encrypts plaintext in the target's stored mode. Text
// starting with the plain prefix, and text for a target with no enabled key,
// is sent unencrypted.
func (s *Service) EncodeOutgoing(
	target domain.Target,
	plaintext string,
	kind domain.MessageKind,
) (domain.Outgoing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := target.Normalize()
	frame := func(line string) string {
		if kind == domain.KindAction {
			return wire.WrapAction(line)
		}
		return line
	}

	if p := s.opts.PlainPrefix; p != "" && strings.HasPrefix(plaintext, p) {
		return domain.Outgoing{Line: frame(strings.TrimPrefix(plaintext, p))}, nil
	}

	key, ok, err := s.activeKey(t)
	if err != nil {
		return domain.Outgoing{}, err
	}
	if !ok {
		return domain.Outgoing{Line: frame(plaintext)}, nil
	}

	line, err := s.encodeWith(key.Mode, key.Material, []byte(plaintext), kind)
	if err != nil {
		return domain.Outgoing{}, err
	}
	s.log.Debug("encoded line",
		zap.String("target", t.String()),
		zap.Stringer("mode", key.Mode),
		zap.String("kind", string(kind)))
	return domain.Outgoing{Line: frame(line), Encrypted: true, Mode: key.Mode}, nil
}

// SelfTest encrypts sample under key in mode and checks that it decodes back
// to the same text.
func (s *Service) SelfTest(mode domain.CipherMode, key domain.KeyMaterial, sample string) error {
	if sample == "" {
		sample = "fishcrypt self-test"
	}
	line, err := s.encodeWith(mode, key, []byte(sample), domain.KindMessage)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", domain.ErrSelfTestFailed, err)
	}
	if got := wire.Classify(line); got.String() != mode.String() {
		return fmt.Errorf("%w: %s produced a %s line", domain.ErrSelfTestFailed, mode, got)
	}
	pt, err := s.decodeWith(mode, key, line)
	if err != nil {
		return fmt.Errorf("%w: decode: %v", domain.ErrSelfTestFailed, err)
	}
	if want := strings.TrimRight(sample, "\x00"); string(pt) != want {
		return fmt.Errorf("%w: %s round trip mismatch", domain.ErrSelfTestFailed, mode)
	}
	return nil
}

// LearnedMode reports the mode tried first for target, if learning has
// seen the target.
func (s *Service) LearnedMode(target domain.Target) (domain.CipherMode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.learn[target.Normalize()]
	if !ok {
		return "", false
	}
	return st.primary, true
}

func (s *Service) activeKey(t domain.Target) (domain.SymmetricKey, bool, error) {
	key, ok, err := s.keys.GetKey(t)
	if err != nil || !ok {
		return domain.SymmetricKey{}, false, err
	}
	disabled, err := s.keys.IsDisabled(t)
	if err != nil {
		return domain.SymmetricKey{}, false, err
	}
	if disabled {
		return domain.SymmetricKey{}, false, nil
	}
	if !key.Mode.Valid() {
		return domain.SymmetricKey{}, false, fmt.Errorf("stored key for %s has unknown mode %q", t, key.Mode)
	}
	return key, true, nil
}

// stateFor returns the learning state for t, resetting it when the stored
// mode was changed behind our back (set-key, key exchange).
func (s *Service) stateFor(t domain.Target, stored domain.CipherMode) *modeState {
	st, ok := s.learn[t]
	if !ok || st.stored != stored {
		st = newModeState(stored)
		s.learn[t] = st
	}
	return st
}

// persistLearned writes st's primary mode back to the key store and records
// it as stored. On error st is left as it was.
func (s *Service) persistLearned(t domain.Target, key domain.SymmetricKey, st *modeState) error {
	if !s.opts.PersistLearned || st.primary == st.stored {
		return nil
	}
	key.Mode = st.primary
	if err := s.keys.SetKey(t, key); err != nil {
		return fmt.Errorf("persist learned mode for %s: %w", t, err)
	}
	st.stored = st.primary
	return nil
}

func (s *Service) logLearned(t domain.Target, mode domain.CipherMode) {
	s.log.Info("learned cipher mode",
		zap.String("target", t.String()),
		zap.Stringer("mode", mode),
		zap.Bool("persist", s.opts.PersistLearned))
}

func (s *Service) decodeWith(mode domain.CipherMode, key domain.KeyMaterial, line string) ([]byte, error) {
	var (
		pt  []byte
		err error
	)
	switch mode {
	case domain.ModeECB:
		pt, err = ecb.Decrypt(key, line, ecb.Options{
			MarkBroken:   s.opts.MarkBroken,
			BrokenMarker: s.opts.BrokenMarker,
		})
	case domain.ModeCBC:
		pt, err = cbc.Decrypt(key, line)
	default:
		return nil, fmt.Errorf("unknown cipher mode %q", mode)
	}
	if err != nil {
		return nil, err
	}
	// Chat lines cannot carry NUL, so an interior one means the wrong key or
	// mode produced garbage.
	if bytes.IndexByte(pt, 0) >= 0 {
		return nil, fmt.Errorf("%w: NUL in plaintext", domain.ErrDecryptionFailed)
	}
	return pt, nil
}

func (s *Service) encodeWith(
	mode domain.CipherMode,
	key domain.KeyMaterial,
	pt []byte,
	kind domain.MessageKind,
) (string, error) {
	switch mode {
	case domain.ModeECB:
		return ecb.Encrypt(key, pt, tagFor(kind)), nil
	case domain.ModeCBC:
		return cbc.Codec{Rand: s.rand}.Encrypt(key, pt)
	}
	return "", fmt.Errorf("unknown cipher mode %q", mode)
}

// tagFor picks the ECB tag. CBC lines always use "+OK *".
func tagFor(kind domain.MessageKind) string {
	if kind == domain.KindAction || kind == domain.KindNotice {
		return ecb.TagMCPS
	}
	return ecb.TagOK
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
