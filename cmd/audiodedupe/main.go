package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	audiodedupe "github.com/alberanid/audiodedupe/pkg"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "audiodedupe: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	filesFilter := pflag.String("files-filter", audiodedupe.DefaultFilesFilter,
		"regular expression matched against file names")
	disableCache := pflag.Bool("disable-cache", false,
		"do not read or write the fingerprint cache")
	cacheDir := pflag.String("cache-dir", audiodedupe.DefaultCacheDir(),
		"directory where the fingerprint cache is stored")
	resetCache := pflag.Bool("reset-cache", false,
		"delete the fingerprint cache before scanning")
	fingerprintCmd := pflag.String("fingerprint-cmd", audiodedupe.DefaultFingerprintCmd,
		"command used to compute audio fingerprints")
	fingerprintCmdArgs := pflag.StringArray("fingerprint-cmd-args", audiodedupe.DefaultFingerprintCmdArgs(),
		"argument passed to the fingerprint command before the file name (repeatable)")
	fingerprintCmdTimeout := pflag.Int("fingerprint-cmd-timeout", int(audiodedupe.DefaultFingerprintTimeout/time.Second),
		"seconds to wait for each fingerprint command run")
	workers := pflag.Int("concurrent-processes", audiodedupe.DefaultWorkers(),
		"number of concurrent fingerprint processes")
	output := pflag.String("output", audiodedupe.OutputHuman,
		"report format: human or json")
	showTags := pflag.Bool("show-tags", false,
		"show artist and title metadata in the report")
	noProgress := pflag.Bool("no-progress", false,
		"do not draw the progress bar")
	verbose := pflag.CountP("verbose", "v",
		"increase verbosity (repeatable, up to -vvv)")
	debug := pflag.String("debug", "",
		"comma-separated debug flags (scan, provider)")
	pflag.Usage = usage
	pflag.Parse()

	dirs := pflag.Args()
	if len(dirs) == 0 {
		usage()
		return fmt.Errorf("no directories to scan")
	}

	// Defaults, then the config file, then explicit flags on top
	opts := audiodedupe.DefaultOptions()
	format := audiodedupe.OutputHuman
	verboseLevel := 0
	debugFlags := ""
	if configBase, err := os.UserConfigDir(); err == nil {
		cfg, err := audiodedupe.LoadConfig(filepath.Join(configBase, "audiodedupe"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		} else if err := cfg.Validate(); err != nil {
			return err
		} else {
			opts = cfg.Options()
			format = cfg.GetReportConfig().Format
			verboseCfg := cfg.GetVerboseConfig()
			verboseLevel = verboseCfg.Level
			debugFlags = verboseCfg.Debug
		}
	}

	if pflag.CommandLine.Changed("files-filter") {
		opts.FilesFilter = *filesFilter
	}
	if *disableCache {
		opts.DisableCache = true
	}
	if pflag.CommandLine.Changed("cache-dir") {
		opts.CacheDir = *cacheDir
	}
	if pflag.CommandLine.Changed("fingerprint-cmd") {
		opts.FingerprintCmd = *fingerprintCmd
	}
	if pflag.CommandLine.Changed("fingerprint-cmd-args") {
		opts.FingerprintCmdArgs = *fingerprintCmdArgs
	}
	if pflag.CommandLine.Changed("fingerprint-cmd-timeout") {
		opts.FingerprintCmdTimeout = time.Duration(*fingerprintCmdTimeout) * time.Second
	}
	if pflag.CommandLine.Changed("concurrent-processes") {
		opts.Workers = *workers
	}
	if pflag.CommandLine.Changed("output") {
		format = *output
	}
	if *showTags {
		opts.ShowTags = true
	}
	if pflag.CommandLine.Changed("verbose") {
		verboseLevel = *verbose
	}
	if pflag.CommandLine.Changed("debug") {
		debugFlags = *debug
	}
	opts.ResetCache = *resetCache
	opts.Progress = !*noProgress && isatty.IsTerminal(os.Stderr.Fd())

	if err := audiodedupe.ValidateFilesFilter(opts.FilesFilter); err != nil {
		return err
	}
	if err := audiodedupe.ValidateWorkers(opts.Workers); err != nil {
		return err
	}
	if err := audiodedupe.ValidateOutputFormat(format); err != nil {
		return err
	}
	if err := audiodedupe.ValidateVerboseLevel(verboseLevel); err != nil {
		return err
	}
	audiodedupe.SetVerboseLevel(verboseLevel)
	audiodedupe.SetDebugFlags(debugFlags)

	d, err := audiodedupe.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "please make sure that you have the %s executable installed\n",
			opts.FingerprintCmd)
		return err
	}

	ctx := context.Background()
	for _, dir := range dirs {
		if _, err := d.Scan(ctx, dir); err != nil {
			return err
		}
	}

	if _, err := d.Prune(); err != nil {
		return err
	}

	groups, files := d.Stats()
	audiodedupe.VerboseLog(1, "index holds %d fingerprints across %d files", groups, files)

	return d.WriteReport(os.Stdout, format)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: audiodedupe [options] directory [directory ...]\n")
	fmt.Fprintf(os.Stderr, "Find duplicate audio files by content fingerprint.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n%s", pflag.CommandLine.FlagUsages())
}
