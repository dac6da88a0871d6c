package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fss-engine/fss"
	"fss-engine/fsskey"
	"fss-engine/group"
)

var (
	opName  string
	n       int
	threads int
	party   int
	xArg    int64
	keyHex  string
)

var rootCmd = &cobra.Command{
	Use:   "fss-engine",
	Short: "Function secret sharing key generation and evaluation",
	Long: `fss-engine drives the DPF ("eq") and DCF ("le") primitives defined
in package fss: batch keygen, single-key evaluation, and a scripted
two-party demo that runs both halves locally for inspection.`,
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate n key pairs for the chosen primitive",
	RunE:  runKeygen,
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a single hex-encoded key at x",
	RunE:  runEval,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Generate one key pair and evaluate it at a handful of points",
	RunE:  runDemo,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&opName, "op", "o", "eq", "primitive: eq (DPF) or le (DCF)")

	keygenCmd.Flags().IntVarP(&n, "n", "n", 1, "number of independent key pairs")
	keygenCmd.Flags().IntVarP(&threads, "threads", "t", 0, "worker count (0 = all cores)")

	evalCmd.Flags().IntVarP(&party, "party", "p", 0, "party index: 0 or 1")
	evalCmd.Flags().Int64VarP(&xArg, "x", "x", 0, "evaluation point")
	evalCmd.Flags().StringVarP(&keyHex, "key", "k", "", "hex-encoded key (required)")
	evalCmd.MarkFlagRequired("key")

	demoCmd.Flags().Int64VarP(&xArg, "x", "x", 0, "evaluation point")

	rootCmd.AddCommand(keygenCmd, evalCmd, demoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func primitive(name string) (fss.Primitive, error) {
	switch name {
	case "eq":
		return fss.Eq, nil
	case "le":
		return fss.Le, nil
	default:
		return fss.Primitive{}, fmt.Errorf("unknown primitive %q (want eq or le)", name)
	}
}

func runKeygen(cmd *cobra.Command, args []string) error {
	p, err := primitive(opName)
	if err != nil {
		return err
	}
	keysA := make([]byte, n*p.KeyLen)
	keysB := make([]byte, n*p.KeyLen)
	if err := fss.Keygen(keysA, keysB, n, threads, p.OpID); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		a := keysA[i*p.KeyLen : (i+1)*p.KeyLen]
		b := keysB[i*p.KeyLen : (i+1)*p.KeyLen]
		fmt.Printf("%d\tA=%s\n\tB=%s\n", i, hex.EncodeToString(a), hex.EncodeToString(b))
	}
	return nil
}

func runEval(cmd *cobra.Command, args []string) error {
	p, err := primitive(opName)
	if err != nil {
		return err
	}
	keyBuf, err := hex.DecodeString(keyHex)
	if err != nil {
		return fmt.Errorf("invalid --key hex: %w", err)
	}
	if len(keyBuf) != p.KeyLen {
		return fmt.Errorf("key is %d bytes, want %d for op %s", len(keyBuf), p.KeyLen, opName)
	}
	xs := group.ToLittleEndian(group.Element(xArg))
	results := make([]int64, 1)
	if err := fss.Eval(party, xs[:], keyBuf, results, 1, 1, p.OpID); err != nil {
		return err
	}
	fmt.Println(results[0])
	return nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	p, err := primitive(opName)
	if err != nil {
		return err
	}
	keysA := make([]byte, p.KeyLen)
	keysB := make([]byte, p.KeyLen)
	if err := fss.Keygen(keysA, keysB, 1, 1, p.OpID); err != nil {
		return err
	}

	var alpha group.Element
	switch p.OpID {
	case fsskey.OpDPF:
		a, err := fsskey.ParseDPF(keysA)
		if err != nil {
			return err
		}
		b, err := fsskey.ParseDPF(keysB)
		if err != nil {
			return err
		}
		alpha = group.Add(a.AlphaSh, b.AlphaSh)
	case fsskey.OpDCF:
		a, err := fsskey.ParseDCF(keysA)
		if err != nil {
			return err
		}
		b, err := fsskey.ParseDCF(keysB)
		if err != nil {
			return err
		}
		alpha = group.Add(a.AlphaSh, b.AlphaSh)
	}
	fmt.Printf("threshold alpha = %d\n", alpha)

	points := []group.Element{alpha - 1, alpha, alpha + 1, group.Element(xArg)}
	for _, x := range points {
		xs := group.ToLittleEndian(x)
		resA := make([]int64, 1)
		resB := make([]int64, 1)
		if err := fss.Eval(0, xs[:], keysA, resA, 1, 1, p.OpID); err != nil {
			return err
		}
		if err := fss.Eval(1, xs[:], keysB, resB, 1, 1, p.OpID); err != nil {
			return err
		}
		out := group.Element(resA[0]) + group.Element(resB[0])
		fmt.Printf("f(%d) = %d\n", x, out)
	}
	return nil
}
