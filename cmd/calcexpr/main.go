package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/calcexpr"
)

// config holds the settings that can be loaded from a YAML file. Flags
// override the file.
type config struct {
	Type     string   `yaml:"type"`
	Prec     uint     `yaml:"prec"`
	MaxDepth int      `yaml:"max_depth"`
	Format   string   `yaml:"format"`
	Disable  []string `yaml:"disable"`
}

func defaultConfig() config {
	return config{Type: "float", Prec: 64, Format: "%v"}
}

// loadConfig reads a config file over the defaults. An empty name gives the
// defaults.
func loadConfig(name string) (config, error) {
	cfg := defaultConfig()
	if name == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", name, err)
	}
	return cfg, nil
}

// runner evaluates expressions with one number type.
type runner interface {
	eval(w io.Writer, src string) error
	funcs(w io.Writer)
}

type evalRunner[T any] struct {
	ev   *calcexpr.Evaluator[T]
	verb string
	echo bool
}

func (r *evalRunner[T]) eval(w io.Writer, src string) error {
	p, err := r.ev.Compile(src)
	if err != nil {
		return err
	}
	if r.echo {
		fmt.Fprintf(w, "%v : ", p)
	}
	v, err := r.ev.Run(p)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, r.verb+"\n", v)
	return nil
}

func (r *evalRunner[T]) funcs(w io.Writer) {
	for _, name := range r.ev.Funcs() {
		n, _ := r.ev.Arity(name)
		fmt.Fprintf(w, "%s/%d\n", name, n)
	}
}

func setup[T any](ev *calcexpr.Evaluator[T], cfg config, echo bool) runner {
	for _, name := range cfg.Disable {
		ev.Disconnect(name)
	}
	return &evalRunner[T]{ev: ev, verb: cfg.Format, echo: echo}
}

func newRunner(cfg config, echo bool) (runner, error) {
	depth := calcexpr.MaxDepth(cfg.MaxDepth)
	switch cfg.Type {
	case "float":
		ev := calcexpr.New(calcexpr.Float64(), depth)
		ev.ConnectFuncs(calcexpr.Float64Funcs())
		return setup(ev, cfg, echo), nil
	case "int":
		return setup(calcexpr.New(calcexpr.Int64(), depth), cfg, echo), nil
	case "big":
		ev := calcexpr.New(calcexpr.BigFloat(cfg.Prec), depth)
		ev.ConnectFuncs(calcexpr.BigFloatFuncs(cfg.Prec))
		return setup(ev, cfg, echo), nil
	case "decimal":
		ev := calcexpr.New(calcexpr.Decimal(), depth)
		ev.ConnectFuncs(calcexpr.DecimalFuncs())
		return setup(ev, cfg, echo), nil
	default:
		return nil, fmt.Errorf("unknown number type %q (want float, int, big, or decimal)", cfg.Type)
	}
}

// evalAll evaluates each expression in srcs, or each non-blank line of in if
// srcs is empty. Results go to out and errors are logged. The result is the
// number of expressions that failed.
func evalAll(r runner, srcs []string, in io.Reader, out io.Writer) (int, error) {
	failed := 0
	do := func(src string) {
		if err := r.eval(out, src); err != nil {
			log.Printf("%s: %v", src, err)
			failed++
		}
	}
	if len(srcs) > 0 {
		for _, src := range srcs {
			do(src)
		}
		return failed, nil
	}
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if src := strings.TrimSpace(sc.Text()); src != "" {
			do(src)
		}
	}
	return failed, sc.Err()
}

var errFailed = errors.New("some expressions failed")

// Set via -ldflags at build time.
var version = "dev"

func command() *cobra.Command {
	var (
		cfgname string
		echo    bool
		over    config
	)
	resolve := func(cmd *cobra.Command) (runner, error) {
		cfg, err := loadConfig(cfgname)
		if err != nil {
			return nil, err
		}
		flags := cmd.Flags()
		if flags.Changed("type") {
			cfg.Type = over.Type
		}
		if flags.Changed("prec") {
			cfg.Prec = over.Prec
		}
		if flags.Changed("max-depth") {
			cfg.MaxDepth = over.MaxDepth
		}
		if flags.Changed("fmt") {
			cfg.Format = over.Format
		}
		return newRunner(cfg, echo)
	}

	root := &cobra.Command{
		Use:           "calcexpr [expression...]",
		Short:         "Evaluate arithmetic expressions",
		Long:          "Evaluate each argument as an expression, or each line of standard input if there are no arguments.",
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolve(cmd)
			if err != nil {
				return err
			}
			failed, err := evalAll(r, args, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if failed > 0 {
				return errFailed
			}
			return nil
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&cfgname, "config", "", "YAML config file")
	pf.StringVar(&over.Type, "type", "float", "number type: float, int, big, or decimal")
	pf.UintVarP(&over.Prec, "prec", "p", 64, "precision of big calculations in bits")
	pf.IntVar(&over.MaxDepth, "max-depth", calcexpr.DefaultMaxDepth, "maximum parenthesis nesting")
	root.Flags().StringVar(&over.Format, "fmt", "%v", "result formatting string")
	root.Flags().BoolVar(&echo, "echo", false, "print postfix programs")

	root.AddCommand(&cobra.Command{
		Use:   "funcs",
		Short: "List the functions available to expressions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolve(cmd)
			if err != nil {
				return err
			}
			r.funcs(cmd.OutOrStdout())
			return nil
		},
	})
	return root
}

func main() {
	log.SetFlags(0)
	if err := command().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			log.Print(err)
		}
		os.Exit(1)
	}
}
