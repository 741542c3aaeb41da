package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/apimgr/hostscout/src/api"
	"github.com/apimgr/hostscout/src/banner"
	"github.com/apimgr/hostscout/src/credential"
	"github.com/apimgr/hostscout/src/metrics"
	"github.com/apimgr/hostscout/src/model"
	"github.com/apimgr/hostscout/src/output"
	"github.com/apimgr/hostscout/src/paths"
	"github.com/apimgr/hostscout/src/pipeline"
)

// Search flags
var (
	numResults   int
	country      string
	port         int
	osFilter     string
	sslFilter    string
	bannerFilter string
	exploit      bool
	ipRange      string
	limit        int
	sortField    string
	since        string
	savePath     string
	workers      int
	noBanner     bool
)

func addSearchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVarP(&numResults, "num-results", "n", 10, "number of hosts to enrich and show (0 = all)")
	f.StringVar(&country, "country", "", "filter by two-letter country code")
	f.IntVar(&port, "port", 0, "filter by port")
	f.StringVar(&osFilter, "os", "", "filter by operating system")
	f.StringVar(&sslFilter, "ssl", "", "filter by SSL/TLS attribute")
	f.StringVar(&bannerFilter, "banner", "", "filter by banner text")
	f.BoolVarP(&exploit, "exploit", "e", false, "look up known exploits for each host")
	f.StringVarP(&ipRange, "ip-range", "i", "", "keep hosts whose first IP octet is in low-high, e.g. 10-80")
	f.IntVarP(&limit, "limit", "l", 100, "maximum number of search matches to consider")
	f.StringVarP(&sortField, "sort", "s", model.DefaultSortField, "sort field, descending: "+strings.Join(model.SortFields, ", "))
	f.StringVar(&since, "since", "", "keep hosts updated on or after YYYY-MM-DD")
	f.StringVarP(&savePath, "save", "w", "", "also write results to this file")
	f.IntVar(&workers, "workers", 0, "concurrent enrichment lookups (default from enrich.workers)")
	f.BoolVar(&noBanner, "no-banner", false, "do not print the logo")
}

// buildOptions turns flags and the query into run options. Every user
// bound is validated here, before any network call.
func buildOptions(query string) (pipeline.Options, output.Format, error) {
	var opts pipeline.Options

	format, err := output.ParseFormat(getOutputFormat())
	if err != nil {
		return opts, "", err
	}

	rng, err := model.ParseIPRange(ipRange)
	if err != nil {
		return opts, "", err
	}
	sinceBound, err := model.ParseSince(since)
	if err != nil {
		return opts, "", err
	}
	sortSpec, err := model.ParseSortSpec(sortField)
	if err != nil {
		return opts, "", err
	}

	if numResults < 0 {
		return opts, "", &model.ParseError{What: "num-results", Value: fmt.Sprint(numResults), Err: fmt.Errorf("must not be negative")}
	}
	if limit < 0 {
		return opts, "", &model.ParseError{What: "limit", Value: fmt.Sprint(limit), Err: fmt.Errorf("must not be negative")}
	}

	w := workers
	if w <= 0 {
		w = viper.GetInt("enrich.workers")
	}

	opts = pipeline.Options{
		Query: api.Query{
			Text:    query,
			Limit:   limit,
			Country: country,
			Port:    port,
			OS:      osFilter,
			SSL:     sslFilter,
			Banner:  bannerFilter,
		},
		Filter:     model.FilterSpec{IPRange: rng, Since: sinceBound},
		Sort:       sortSpec,
		NumResults: numResults,
		Exploits:   exploit,
		Workers:    w,
	}
	return opts, format, nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	opts, format, err := buildOptions(joinArgs(args))
	if err != nil {
		return err
	}
	if opts.Query.Text == "" {
		return model.ErrEmptyQuery
	}

	stdout := cmd.OutOrStdout()

	key, err := credential.Resolve(credential.DefaultStore(), cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	// The save file is truncated before any remote call
	sink, err := output.NewSink(stdout, format, useColor(stdout), paths.Expand(savePath))
	if err != nil {
		return err
	}
	defer sink.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, release, err := newAPIClient(ctx, key)
	if err != nil {
		return err
	}
	defer release()

	printBanner(stdout)

	rec := metrics.New()
	runner := &pipeline.Runner{Remote: client, Logger: logger, Metrics: rec}

	report, runErr := runner.Run(ctx, opts, sink)

	if path := viper.GetString("metrics.file"); path != "" {
		if err := rec.WriteTextfile(paths.Expand(path)); err != nil {
			logger.Warn("metrics export failed", "path", path, "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}
	if err := sink.Close(); err != nil {
		return err
	}

	if sink.Path() != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d results to %s\n", report.Rendered, sink.Path())
	}
	if report.Failed > 0 && !verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: enrichment failed for %d of %d hosts (use -v for details)\n", report.Failed, report.Rendered)
	}
	return nil
}

// useColor reports whether w should get styled text
func useColor(w io.Writer) bool {
	switch strings.ToLower(viper.GetString("output.color")) {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printBanner(w io.Writer) {
	if noBanner {
		return
	}
	f, ok := w.(*os.File)
	if !ok {
		return
	}
	width, isTTY := banner.TerminalWidth(f)
	if !isTTY {
		return
	}
	banner.Print(w, banner.Config{
		AppName: ProjectName,
		Version: Version,
		Tagline: "Shodan host intelligence",
		Width:   width,
		Color:   useColor(w),
	})
}

func configError(path string, err error) error {
	return &model.ConfigError{Path: path, Err: fmt.Errorf("%w: %v", model.ErrInvalidConfig, err)}
}
