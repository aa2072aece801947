// cypherkiss: Cyfer's secret love language
//
// Scheme:
// - Every message character sits on a fixed keyboard grid (41 symbols:
//   A-Z, 0-9, ! , . space ?) with coordinates in [0,31).
// - The key derives a 2×2 matrix (a b; c d) mod 31; each coordinate is
//   transformed by it. Keys whose determinant is 0 mod 31 are rejected.
// - The first point is the header; every later point is sent as a delta
//   from the previous one. Digits become emoji, minus signs become 🍭/🍬,
//   the header is always reversed and every second move is mirrored.
//
// Commands:
// - kiss  encode a message (args or stdin)
// - tell  decode a token stream (args or stdin), ignoring a trailing "Hint:"
// - grid, inspect, self-test  diagnostics
//
// The key comes from --key or --prompt. The pepper used by the peppered
// schedules comes from the config file, CYPHER_PEPPER or CYPHER_PEPPER_FILE.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"cypherkiss/internal"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "dev"

var (
	configPath string
	keyFlag    string
	prompt     bool
	mask       bool
	schedule   string
	logLevel   string
	noColor    bool

	hint       string
	showQR     bool
	verify     bool
	phraseOnly bool
	showMatrix bool
	selfSets   []int

	logger hclog.Logger
	cipher *internal.Cipher
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "cypherkiss",
		Short:             "Encode and decode secret messages as emoji",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
	root.SetVersionTemplate("{{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to a YAML config file")
	pf.StringVar(&keyFlag, "key", "", "Secret key")
	pf.BoolVar(&prompt, "prompt", false, "Securely prompt for the key (no echo); overrides --key")
	pf.BoolVar(&mask, "mask", true, "With --prompt, show * while typing (use --mask=false to disable)")
	pf.StringVar(&schedule, "schedule", "", "Key schedule: simple, peppered, argon2id (overrides config)")
	pf.StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output (TTY-safe)")

	kiss := &cobra.Command{
		Use:   "kiss [message ...]",
		Short: "Encode a message",
		RunE:  runKiss,
	}
	kiss.Flags().StringVar(&hint, "hint", "", "Key hint appended to the shared text (never used as key material)")
	kiss.Flags().BoolVar(&showQR, "qr", false, "Also print the shared text as a QR code")
	kiss.Flags().BoolVar(&verify, "verify", true, "Decode the result before printing it")

	tell := &cobra.Command{
		Use:   "tell [tokens ...]",
		Short: "Decode a token stream",
		RunE:  runTell,
	}
	tell.Flags().BoolVar(&phraseOnly, "phrase-only", false, "Print only the decoded message")

	grid := &cobra.Command{
		Use:   "grid",
		Short: "Print the keyboard grid (and encoded points when a key is given)",
		RunE:  runGrid,
	}

	inspect := &cobra.Command{
		Use:   "inspect",
		Short: "Check whether a key can be used",
		RunE:  runInspect,
	}
	inspect.Flags().BoolVar(&showMatrix, "show-matrix", false, "Print the derived matrix and its inverse")

	selfTest := &cobra.Command{
		Use:   "self-test",
		Short: "Run randomized round-trip checks",
		RunE:  runSelfTest,
	}
	selfTest.Flags().IntSliceVar(&selfSets, "sets", []int{12, 24}, "Message lengths to test")

	root.AddCommand(kiss, tell, grid, inspect, selfTest)
	return root
}

func setup(cmd *cobra.Command, _ []string) error {
	internal.SetColorEnabled(!noColor && term.IsTerminal(int(syscall.Stdout)))

	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if schedule != "" {
		cfg.Schedule = schedule
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger = internal.NewLogger("cypherkiss", cfg.LogLevel, os.Stderr)

	policy, err := cfg.KeyPolicy()
	if err != nil {
		return err
	}
	sched, err := internal.NewSchedule(policy)
	if err != nil {
		return err
	}
	logger.Debug("configured", "command", cmd.Name(), "schedule", policy.KDF)

	cipher = internal.NewCipher(sched, logger.Named("cipher"))
	return nil
}

// resolveKey returns the key from --prompt or --key.
func resolveKey(confirm bool) (string, error) {
	if prompt {
		return internal.PromptForKey(mask, confirm)
	}
	if strings.TrimSpace(keyFlag) == "" {
		return "", internal.ErrKeyRequired
	}
	return keyFlag, nil
}

// textInput joins args, or reads stdin when there are none.
func textInput(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprintln(os.Stderr, internal.Style("Enter text, then Ctrl-D:", internal.Gray))
	}
	return internal.ReadInput(os.Stdin)
}

func runKiss(cmd *cobra.Command, args []string) error {
	key, err := resolveKey(true)
	if err != nil {
		return err
	}
	msg, err := textInput(args)
	if err != nil {
		return err
	}

	var stream string
	if verify {
		stream, err = internal.EncodeVerified(cipher, key, msg)
	} else {
		stream, err = cipher.Encode(key, msg)
	}
	if err != nil {
		return err
	}
	if stream == "" {
		logger.Warn("nothing to encode: message has no recognized characters")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, internal.Style(stream, internal.Bold, internal.Lilac))
	if h := strings.TrimSpace(hint); h != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, internal.Style("Hint: "+h, internal.Blush))
	}
	if showQR {
		fmt.Fprintln(out)
		if err := internal.RenderQR(out, internal.ShareText(stream, hint)); err != nil {
			return err
		}
	}
	return nil
}

func runTell(cmd *cobra.Command, args []string) error {
	key, err := resolveKey(false)
	if err != nil {
		return err
	}
	in, err := textInput(args)
	if err != nil {
		return err
	}

	msg, err := cipher.Decode(key, in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if phraseOnly {
		fmt.Fprintln(out, msg)
		return nil
	}
	fmt.Fprintln(out, internal.Style("Cypher Whispers: "+msg, internal.Bold, internal.Lilac))
	return nil
}

func runGrid(cmd *cobra.Command, _ []string) error {
	var m internal.Matrix
	withKey := prompt || strings.TrimSpace(keyFlag) != ""
	if withKey {
		key, err := resolveKey(false)
		if err != nil {
			return err
		}
		if m, err = cipher.Matrix(key); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if withKey {
		fmt.Fprintf(out, "%-6s %-8s %s\n", "Char", "Coord", "Point")
	} else {
		fmt.Fprintf(out, "%-6s %s\n", "Char", "Coord")
	}
	fmt.Fprintln(out, strings.Repeat("─", 26))
	for _, r := range internal.Symbols() {
		c, _ := internal.CoordOf(r)
		label := fmt.Sprintf("%q", r)
		coord := fmt.Sprintf("%d,%d", c.X, c.Y)
		if withKey {
			p := m.Apply(c)
			fmt.Fprintf(out, "%-6s %-8s %s,%s\n", label, coord,
				internal.Reverse(internal.EncodeInt(p.X)), internal.Reverse(internal.EncodeInt(p.Y)))
			continue
		}
		fmt.Fprintf(out, "%-6s %s\n", label, coord)
	}
	return nil
}

func runInspect(cmd *cobra.Command, _ []string) error {
	key, err := resolveKey(false)
	if err != nil {
		return err
	}
	m, err := cipher.Matrix(key)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Key: usable")
	if showMatrix {
		inv, err := m.Inverse()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Matrix:  %s  det=%d\n", m, m.Det())
		fmt.Fprintf(out, "Inverse: %s\n", inv)
	}
	return nil
}

func runSelfTest(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	failed := 0

	if prompt || strings.TrimSpace(keyFlag) != "" {
		key, err := resolveKey(false)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, internal.Style("== Self-test: given key ==", internal.Bold))
		failed += internal.RunSelfTest(out, cipher, key, selfSets, "")
	}

	k := internal.RandomKey(cipher, 8)
	fmt.Fprintln(out, internal.Style("== Self-test: random key ==", internal.Bold))
	failed += internal.RunSelfTest(out, cipher, k, selfSets, "")

	if failed > 0 {
		return fmt.Errorf("self-test: %d failed sets", failed)
	}
	return nil
}

// userMessage sanitizes errors so decode failures never echo pasted input.
func userMessage(err error) string {
	switch {
	case errors.Is(err, internal.ErrDecode):
		return "chemistry error: could not decode message"
	case errors.Is(err, internal.ErrVerify):
		return "chemistry error: message did not survive a round trip"
	case errors.Is(err, internal.ErrDegenerateKey):
		return "degenerate key: choose a different key"
	case errors.Is(err, internal.ErrKeyRequired):
		return "a secret key is required (--key or --prompt)"
	default:
		return err.Error()
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, internal.Style("error: "+userMessage(err), internal.Red))
		os.Exit(2)
	}
}
