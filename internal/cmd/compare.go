package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/heaths/gitlab-compare/internal/compare"
	"github.com/heaths/gitlab-compare/internal/gitlab"
	"github.com/heaths/gitlab-compare/internal/logger"
	"github.com/heaths/gitlab-compare/internal/models"
	"github.com/heaths/gitlab-compare/internal/report"
	"github.com/heaths/gitlab-compare/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Environment variables used when the corresponding flag is not passed.
var envDefaults = map[string]string{
	"url1":   "GITLAB_URL_1",
	"token1": "GITLAB_TOKEN_1",
	"url2":   "GITLAB_URL_2",
	"token2": "GITLAB_TOKEN_2",
}

func NewCompareCmd(globalOpts *GlobalOptions, runFunc func(*compareOptions) error) *cobra.Command {
	v := viper.New()
	opts := compareOptions{}
	cmd := &cobra.Command{
		Use:   "gitlab-compare",
		Short: "Compare the projects of two GitLab instances",
		Long: heredoc.Doc(`
			List every project visible to a token on two GitLab instances and
			match them by their full path.

			Reports are only written to files. Choose at most one combined report
			with --out-json or --out-csv, and optionally write separate files for
			each instance and the common projects with --json-prefix or --csv-prefix:

			  <prefix>_gitlab1: all projects from the first instance
			  <prefix>_gitlab2: all projects from the second instance
			  <prefix>_common:  projects present on both, matched by path

			URLs and tokens default to GITLAB_URL_1, GITLAB_TOKEN_1, GITLAB_URL_2,
			and GITLAB_TOKEN_2. Progress is logged to standard error.
		`),
		Example: heredoc.Doc(`
			# write a combined JSON report
			$ gitlab-compare --url1 https://gitlab.a.example.com --token1 $GITLAB_TOKEN_A \
			    --url2 https://gitlab.b.example.com --token2 $GITLAB_TOKEN_B \
			    --out-json reports/combined.json

			# write separate JSON and CSV files using tokens from the environment
			$ gitlab-compare --url1 https://gitlab.a.example.com --url2 https://gitlab.b.example.com \
			    --json-prefix reports/run --csv-prefix reports/run --log-file reports/run.log
		`),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unexpected argument %q", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.GlobalOptions = *globalOpts

			if err := opts.load(v, cmd.Flags()); err != nil {
				return err
			}

			if err := opts.validate(); err != nil {
				return err
			}

			if runFunc == nil {
				runFunc = runCompare
			}

			return runFunc(&opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetFlagErrorFunc(flagError)

	cmd.Flags().String("url1", "", "URL of the first GitLab instance")
	cmd.Flags().String("token1", "", "Private token for the first GitLab instance")
	cmd.Flags().String("url2", "", "URL of the second GitLab instance")
	cmd.Flags().String("token2", "", "Private token for the second GitLab instance")
	cmd.Flags().Bool("no-verify-ssl", false, "Disable TLS certificate verification")

	cmd.Flags().Int("page-size", gitlab.MaxPageSize, fmt.Sprintf("Projects requested per page, at most %d", gitlab.MaxPageSize))
	IntRangeVarP(cmd, &opts.maxRetries, "max-retries", "", gitlab.DefaultMaxRetries, 0, 100, "Retries for a page after a transient error")
	PositiveFloatVarP(cmd, &opts.backoff, "backoff", "", gitlab.DefaultBackoff, "Base of the exponential delay in seconds between retries")

	cmd.Flags().String("log-file", "", "Also append log lines to this file")

	cmd.Flags().String("out-json", "", "Write the combined report as JSON to this file")
	cmd.Flags().String("out-csv", "", "Write the combined report as CSV to this file")
	cmd.Flags().String("json-prefix", "", "Write separate JSON files <prefix>_gitlab1.json, <prefix>_gitlab2.json, and <prefix>_common.json")
	cmd.Flags().String("csv-prefix", "", "Write separate CSV files <prefix>_gitlab1.csv, <prefix>_gitlab2.csv, and <prefix>_common.csv")

	cmd.Flags().String("config", "", "Read defaults for any of these flags from a YAML file")

	return cmd
}

type compareOptions struct {
	GlobalOptions

	url1, token1 string
	url2, token2 string
	verifySSL    bool

	pageSize   int
	maxRetries int
	backoff    float64

	logFile string

	outJSON    string
	outCSV     string
	jsonPrefix string
	csvPrefix  string

	httpClient *http.Client
}

// load resolves options from flags, then the environment, then an optional config file.
func (opts *compareOptions) load(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	for key, env := range envDefaults {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return usageErrorf("reading config file %s: %v", path, err)
		}
	}

	opts.url1 = v.GetString("url1")
	opts.token1 = v.GetString("token1")
	opts.url2 = v.GetString("url2")
	opts.token2 = v.GetString("token2")
	opts.verifySSL = !v.GetBool("no-verify-ssl")

	opts.pageSize = gitlab.ClampPageSize(v.GetInt("page-size"))
	opts.maxRetries = v.GetInt("max-retries")
	opts.backoff = v.GetFloat64("backoff")

	opts.logFile = v.GetString("log-file")

	opts.outJSON = v.GetString("out-json")
	opts.outCSV = v.GetString("out-csv")
	opts.jsonPrefix = v.GetString("json-prefix")
	opts.csvPrefix = v.GetString("csv-prefix")

	return nil
}

func (opts *compareOptions) validate() error {
	var missing []string
	for _, p := range []struct {
		key   string
		value string
	}{
		{"url1", opts.url1},
		{"token1", opts.token1},
		{"url2", opts.url2},
		{"token2", opts.token2},
	} {
		if p.value == "" {
			missing = append(missing, fmt.Sprintf("--%s or %s", p.key, envDefaults[p.key]))
		}
	}
	if len(missing) > 0 {
		return usageErrorf("missing required parameters: %s", strings.Join(missing, ", "))
	}

	// Values from a config file bypass flag validation.
	if opts.maxRetries < 0 {
		return usageErrorf("--max-retries must not be negative")
	}
	if opts.backoff <= 0 {
		return usageErrorf("--backoff must be greater than 0")
	}

	if opts.outJSON != "" && opts.outCSV != "" {
		return usageErrorf("--out-json and --out-csv are mutually exclusive")
	}
	if opts.outJSON == "" && opts.outCSV == "" && opts.jsonPrefix == "" && opts.csvPrefix == "" {
		return usageErrorf("set at least one output: --out-json, --out-csv, --json-prefix, or --csv-prefix")
	}

	return nil
}

func runCompare(opts *compareOptions) error {
	log := logger.New(opts.Console, "black+h", opts.logFile)
	ctx := context.Background()

	instances := []struct {
		name, url, token string
	}{
		{"gitlab1", opts.url1, opts.token1},
		{"gitlab2", opts.url2, opts.token2},
	}

	lists := make([][]models.ProjectRecord, len(instances))
	for i, instance := range instances {
		clientOpts := []gitlab.ClientOption{
			gitlab.WithInsecureSkipVerify(!opts.verifySSL),
		}
		if opts.httpClient != nil {
			clientOpts = append(clientOpts, gitlab.WithHTTPClient(opts.httpClient))
		}

		client := gitlab.NewClient(instance.url, instance.token, clientOpts...)
		records, err := gitlab.FetchInstance(ctx, client, log, gitlab.FetchOptions{
			Name:       instance.name,
			PageSize:   opts.pageSize,
			MaxRetries: opts.maxRetries,
			Backoff:    opts.backoff,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", instance.name, err)
		}

		lists[i] = records
	}

	r := &report.Report{
		List1:   lists[0],
		List2:   lists[1],
		Commons: compare.ByPath(lists[0], lists[1]),
	}
	log.Printf("%s in common by path", utils.Pluralize(len(r.Commons), "project"))

	return writeReports(r, opts, log)
}

func writeReports(r *report.Report, opts *compareOptions, log *logger.Logger) error {
	combined := []struct {
		path   string
		format report.Format
	}{
		{opts.outJSON, report.JSON},
		{opts.outCSV, report.CSV},
	}
	for _, out := range combined {
		if out.path == "" {
			continue
		}
		if err := r.WriteCombined(out.path, out.format); err != nil {
			return err
		}
		log.Printf("wrote %s", out.path)
	}

	split := []struct {
		prefix string
		format report.Format
	}{
		{opts.jsonPrefix, report.JSON},
		{opts.csvPrefix, report.CSV},
	}
	for _, out := range split {
		if out.prefix == "" {
			continue
		}
		if err := r.WriteSplit(out.prefix, out.format); err != nil {
			return err
		}
		for _, path := range report.SplitPaths(out.prefix, out.format) {
			log.Printf("wrote %s", path)
		}
	}

	return nil
}
