// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

// Command wetext normalizes text from the command line.
//
//	wetext -dir ./fsts -lang zh -operator tn "2024年1月15日"
//	echo "一百二十三" | wetext -dir ./fsts -operator itn
//
// Every flag can also be set through the environment with a WETEXT_ prefix
// (WETEXT_DIR, WETEXT_LANG, ...); flags win over the environment.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	wetext "github.com/rapidaai/wetext-go"
	"github.com/rapidaai/wetext-go/pkg/commons"
)

func main() {
	v := viper.New()
	v.SetEnvPrefix("wetext")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var (
		dir      = flag.String("dir", v.GetString("dir"), "grammar directory (required)")
		logLevel = flag.String("log-level", "warn", "log level (debug/info/warn/error)")
	)
	flag.String("lang", "", "language (auto/en/zh/ja)")
	flag.String("operator", "", "operator (tn/itn)")
	boolFlag := func(name, usage string) { flag.Bool(name, false, usage) }
	boolFlag("fix-contractions", "expand English contractions")
	boolFlag("traditional-to-simple", "convert Traditional Chinese to Simplified")
	boolFlag("full-to-half", "convert full-width characters to half-width")
	boolFlag("remove-interjections", "strip filler words")
	boolFlag("remove-puncts", "strip punctuation")
	boolFlag("tag-oov", "mark out-of-vocabulary spans")
	boolFlag("enable-0-to-9", "convert single digits (itn)")
	boolFlag("remove-erhua", "drop erhua (zh tn)")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if g, ok := f.Value.(flag.Getter); ok {
			v.Set(key, g.Get())
			return
		}
		v.Set(key, f.Value.String())
	})

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "wetext: -dir is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := wetext.ConfigFromViper(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wetext: %v\n", err)
		os.Exit(2)
	}

	logger := commons.NewApplicationLogger("wetext", *logLevel)
	defer logger.Sync()

	n, err := wetext.NewFromDir(*dir, cfg, wetext.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "wetext: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if args := flag.Args(); len(args) > 0 {
		out, err := n.Normalize(ctx, strings.Join(args, " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "wetext: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(out)
		return
	}

	// No positional text: normalize stdin line by line.
	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		out, err := n.Normalize(ctx, sc.Text())
		if err != nil {
			fmt.Fprintf(os.Stderr, "wetext: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(out)
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "wetext: read stdin: %v\n", err)
		os.Exit(1)
	}
}
