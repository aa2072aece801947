package internal

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Schedule names accepted by NewSchedule.
const (
	ScheduleSimple   = "simple"
	SchedulePeppered = "peppered"
	ScheduleArgon2   = "argon2id"
)

// DefaultIterations is the PBKDF2 work factor for the peppered schedule.
const DefaultIterations = 100_000

// DefaultPepper is used when no pepper is configured. Parties must share the
// same pepper for the peppered schedules to agree.
const DefaultPepper = "cyfer-love-language"

// Fixed salts; the schedules are deterministic by construction.
var (
	pbkdf2Salt = []byte("cyfer/v1/pbkdf2-salt")
	argon2Salt = []byte("cyfer/v1/argon2id/domain-sep")
)

// Schedule derives the key matrix from a normalized key.
type Schedule interface {
	Derive(key string) Matrix
}

// KeyPolicy selects and parameterizes a Schedule.
//   - KDF == "simple" (default): character-code sum, no pepper.
//   - KDF == "peppered": PBKDF2-HMAC-SHA256 over key+pepper.
//   - KDF == "argon2id": Argon2id over key+pepper with the peppered output ranges.
type KeyPolicy struct {
	KDF         string // schedule name
	Pepper      string // process-wide secret, read once at startup
	Iterations  int    // PBKDF2 iterations (>= DefaultIterations)
	KDFMemMB    uint32 // argon2id memory in MB
	KDFTime     uint32 // argon2id passes
	KDFParallel uint8  // argon2id lanes
}

// DefaultKeyPolicy returns the simple schedule, which matches streams made
// by the web form.
func DefaultKeyPolicy() KeyPolicy {
	return KeyPolicy{
		KDF:         ScheduleSimple,
		Pepper:      DefaultPepper,
		Iterations:  DefaultIterations,
		KDFMemMB:    64,
		KDFTime:     2,
		KDFParallel: 1,
	}
}

// NewSchedule builds the Schedule named by policy.KDF.
func NewSchedule(policy KeyPolicy) (Schedule, error) {
	switch strings.ToLower(strings.TrimSpace(policy.KDF)) {
	case "", ScheduleSimple:
		return SimpleSchedule{}, nil
	case SchedulePeppered:
		return NewPepperedSchedule(policy.Pepper, policy.Iterations), nil
	case ScheduleArgon2:
		return NewArgon2Schedule(policy.Pepper, policy.KDFMemMB, policy.KDFTime, policy.KDFParallel), nil
	default:
		return nil, fmt.Errorf("%w %q (supported: simple, peppered, argon2id)", ErrUnknownSchedule, policy.KDF)
	}
}

// NormalizeKey trims and uppercases a key the way it is entered in the form.
func NormalizeKey(key string) (string, error) {
	k := strings.ToUpper(strings.TrimSpace(key))
	if k == "" {
		return "", ErrKeyRequired
	}
	return k, nil
}

// SimpleSchedule seeds the matrix from the sum of the key's character codes.
type SimpleSchedule struct{}

// Derive implements Schedule.
func (SimpleSchedule) Derive(key string) Matrix {
	seed := 0
	for _, r := range key {
		seed += int(r)
	}
	return Matrix{
		A: seed%7 + 2,
		B: seed%5 + 1,
		C: seed%3 + 1,
		D: seed%11 + 2,
	}
}

// PepperedSchedule stretches key+pepper with PBKDF2-HMAC-SHA256.
type PepperedSchedule struct {
	pepper     string
	iterations int
}

// NewPepperedSchedule returns a PepperedSchedule. An empty pepper falls back
// to DefaultPepper and iterations are raised to at least DefaultIterations.
func NewPepperedSchedule(pepper string, iterations int) PepperedSchedule {
	if pepper == "" {
		pepper = DefaultPepper
	}
	if iterations < DefaultIterations {
		iterations = DefaultIterations
	}
	return PepperedSchedule{pepper: pepper, iterations: iterations}
}

// Derive implements Schedule.
func (s PepperedSchedule) Derive(key string) Matrix {
	raw := pbkdf2.Key([]byte(key+s.pepper), pbkdf2Salt, s.iterations, 4, sha256.New)
	return pepperedMatrix(raw)
}

// Argon2Schedule stretches key+pepper with Argon2id.
type Argon2Schedule struct {
	pepper   string
	memMB    uint32
	time     uint32
	parallel uint8
}

// NewArgon2Schedule returns an Argon2Schedule; zero parameters take the
// DefaultKeyPolicy values.
func NewArgon2Schedule(pepper string, memMB, time uint32, parallel uint8) Argon2Schedule {
	def := DefaultKeyPolicy()
	if pepper == "" {
		pepper = DefaultPepper
	}
	if memMB == 0 {
		memMB = def.KDFMemMB
	}
	if time == 0 {
		time = def.KDFTime
	}
	if parallel == 0 {
		parallel = def.KDFParallel
	}
	return Argon2Schedule{pepper: pepper, memMB: memMB, time: time, parallel: parallel}
}

// Derive implements Schedule.
func (s Argon2Schedule) Derive(key string) Matrix {
	raw := argon2.IDKey([]byte(key+s.pepper), argon2Salt, s.time, s.memMB*1024, s.parallel, 4)
	return pepperedMatrix(raw)
}

func pepperedMatrix(raw []byte) Matrix {
	return Matrix{
		A: int(raw[0])%10 + 2,
		B: int(raw[1])%7 + 1,
		C: int(raw[2])%5 + 1,
		D: int(raw[3])%13 + 2,
	}
}
