package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/courier/packages/core/config"
	"github.com/abdul-hamid-achik/courier/packages/core/descriptor"
	"github.com/abdul-hamid-achik/courier/packages/http"
	"github.com/abdul-hamid-achik/courier/packages/metrics"
	"github.com/abdul-hamid-achik/courier/packages/notify"
)

var sendCmd = &cobra.Command{
	Use:   "send [url]",
	Short: "Send a request and print the response",
	Long: `Send one JSON API request built from flags or a YAML request file.

Examples:
  courier send https://api.example.com/v1/items -X GET -p page=2
  courier send https://api.example.com/v1/items -p name=widget --bearer $TOKEN
  courier send -f items.yaml --watch
  courier send https://api.example.com/v1/ping -X GET --repeat 50`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         sendCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	methodFlag  string
	paramFlags  []string
	headerFlags []string
	bearerFlag  string
	basicFlag   string
	apiKeyFlag  string
	signMD5Flag string
	signFlag    string
	timeoutFlag string
	cacheFlag   string
	bodyFlag    string
	schemaFlag  string
	fileFlag    string
	watchFlag   bool
	repeatFlag  int
)

func init() {
	sendCmd.Flags().StringVarP(&methodFlag, "method", "X", "", "HTTP method: GET, POST, PUT, PATCH, DELETE (default POST)")
	sendCmd.Flags().StringArrayVarP(&paramFlags, "param", "p", nil, "Request parameter key=value; key= sends null (repeatable)")
	sendCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, `Header "Key: Value" (repeatable)`)
	sendCmd.Flags().StringVar(&bearerFlag, "bearer", "", "Bearer token")
	sendCmd.Flags().StringVar(&basicFlag, "basic", "", "Basic credentials user:pass")
	sendCmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "API key key=value")
	sendCmd.Flags().StringVar(&signMD5Flag, "sign-md5", "", "Append an MD5 signature of the secret")
	sendCmd.Flags().StringVar(&signFlag, "sign", "", "Send a Signature header")
	sendCmd.Flags().StringVar(&timeoutFlag, "timeout", "", "Request timeout (e.g., 10s, 1m)")
	sendCmd.Flags().StringVar(&cacheFlag, "cache", "", "Cache policy: protocol, reload, cache-else-load, cache-only")
	sendCmd.Flags().StringVar(&bodyFlag, "body", "", "JSON body, used when no parameters are given")
	sendCmd.Flags().StringVar(&schemaFlag, "schema", "", "JSON schema file the response must satisfy")
	sendCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "YAML request file")
	sendCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-send whenever the request file changes")
	sendCmd.Flags().IntVar(&repeatFlag, "repeat", 1, "Send the request N times and report latency percentiles")
}

func sendCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchFlag && fileFlag == "" {
		return withExitCode(ExitUsageError, errors.New("--watch requires --file"))
	}
	if repeatFlag < 1 {
		return withExitCode(ExitUsageError, errors.Errorf("--repeat must be at least 1, got %d", repeatFlag))
	}

	recorder := metrics.NewRecorder(prometheus.NewRegistry())
	center := notify.NewCenter()
	unsubscribe := center.Subscribe(notify.AccountSuspended, func(notify.Event) {
		printSuspended(cmd.ErrOrStderr())
	})
	defer unsubscribe()

	client := http.NewClient(append(cfg.ClientOptions(recorder), http.WithNotifier(center))...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	send := func() error {
		req, schema, err := buildRequest(cfg, args)
		if err != nil {
			return err
		}

		var opts []http.CallOption
		if schema != "" {
			data, err := os.ReadFile(schema)
			if err != nil {
				return withExitCode(ExitUsageError, errors.Wrap(err, "read schema"))
			}
			opts = append(opts, http.WithSchema(string(data)))
		}

		recorder.Reset()
		var last error
		for i := 0; i < repeatFlag; i++ {
			start := time.Now()
			body, err := sendAndWait(ctx, client, req, opts)
			if repeatFlag == 1 {
				printResult(cmd.OutOrStdout(), req, body, err, time.Since(start))
			}
			if err != nil {
				last = err
				if ctx.Err() != nil {
					break
				}
			}
		}
		if repeatFlag > 1 {
			printSnapshot(cmd.OutOrStdout(), req, recorder.Snapshot(), last)
		}
		return last
	}

	err = send()
	if !watchFlag {
		return err
	}
	if err != nil {
		printError(cmd.ErrOrStderr(), err)
	}
	return watch(ctx, cmd, send)
}

// sendAndWait dispatches req and waits for its handler to run on the
// client's executor
func sendAndWait(ctx context.Context, client *http.Client, req *http.Request, opts []http.CallOption) (json.RawMessage, error) {
	type result struct {
		body json.RawMessage
		err  error
	}
	done := make(chan result, 1)
	http.SendCodable(ctx, client, req, func(body json.RawMessage, err error) {
		done <- result{body: body, err: err}
	}, opts...)

	r := <-done
	return r.body, r.err
}

// buildRequest assembles the request from the config, the request file and
// the command line, in that order of precedence
func buildRequest(cfg *config.Config, args []string) (*http.Request, string, error) {
	var (
		req    *http.Request
		schema string
	)

	if fileFlag != "" {
		d, err := descriptor.LoadFile(fileFlag)
		if err != nil {
			return nil, "", withExitCode(ExitUsageError, err)
		}
		req, err = d.Request(cfg.RequestOptions()...)
		if err != nil {
			return nil, "", withExitCode(ExitUsageError, errors.Wrap(err, fileFlag))
		}
		schema = d.SchemaPath()
	} else {
		if len(args) == 0 {
			return nil, "", withExitCode(ExitUsageError, errors.New("a url or --file is required"))
		}
		req = http.NewRequest(args[0], cfg.RequestOptions()...)
	}

	if len(args) > 0 {
		req.URL = args[0]
	}
	if schemaFlag != "" {
		schema = schemaFlag
	}

	if err := applyFlags(req); err != nil {
		return nil, "", withExitCode(ExitUsageError, err)
	}
	return req, schema, nil
}

func applyFlags(req *http.Request) error {
	if methodFlag != "" {
		m, ok := http.ParseMethod(methodFlag)
		if !ok {
			return errors.Errorf("unknown method %q", methodFlag)
		}
		req.Method = m
	}

	if timeoutFlag != "" {
		timeout, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return errors.Wrapf(err, "invalid timeout value %q (use format like 30s, 1m, 500ms)", timeoutFlag)
		}
		req.Timeout = timeout
	}

	if cacheFlag != "" {
		p, ok := http.ParseCachePolicy(cacheFlag)
		if !ok {
			return errors.Errorf("unknown cache policy %q", cacheFlag)
		}
		req.CachePolicy = p
	}

	if len(paramFlags) > 0 {
		params, err := parseParams(paramFlags, req.Params)
		if err != nil {
			return err
		}
		req.Params = params
	}

	if bodyFlag != "" {
		var body any
		if err := json.Unmarshal([]byte(bodyFlag), &body); err != nil {
			return errors.Wrap(err, "invalid --body")
		}
		req.Body = body
	}

	for _, h := range headerFlags {
		key, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return errors.Errorf("invalid header %q, expected \"Key: Value\"", h)
		}
		req.Headers = append(req.Headers, http.Header{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)})
	}

	auth, err := authorizationFromFlags()
	if err != nil {
		return err
	}
	if auth != nil {
		req.Auth = auth
	}

	switch {
	case signMD5Flag != "" && signFlag != "":
		return errors.New("--sign-md5 and --sign are mutually exclusive")
	case signMD5Flag != "":
		req.Signature = http.MD5(signMD5Flag)
	case signFlag != "":
		req.Signature = http.PlainSignature{Value: signFlag}
	}
	return nil
}

// parseParams merges key=value pairs into a copy of base. "key=" is a null.
func parseParams(pairs []string, base map[string]any) (map[string]any, error) {
	params := make(map[string]any, len(base)+len(pairs))
	for k, v := range base {
		params[k] = v
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, errors.Errorf("invalid param %q, expected key=value", pair)
		}
		if value == "" {
			params[key] = nil
			continue
		}
		params[key] = value
	}
	return params, nil
}

func authorizationFromFlags() (http.Authorization, error) {
	var found []http.Authorization
	if bearerFlag != "" {
		found = append(found, http.Bearer(bearerFlag))
	}
	if basicFlag != "" {
		user, pass, ok := strings.Cut(basicFlag, ":")
		if !ok {
			return nil, errors.Errorf("invalid --basic %q, expected user:pass", basicFlag)
		}
		found = append(found, http.BasicAuth{Username: user, Password: pass})
	}
	if apiKeyFlag != "" {
		key, value, ok := strings.Cut(apiKeyFlag, "=")
		if !ok || key == "" {
			return nil, errors.Errorf("invalid --api-key %q, expected key=value", apiKeyFlag)
		}
		found = append(found, http.APIKey{Key: key, Value: value})
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, errors.New("--bearer, --basic and --api-key are mutually exclusive")
	}
}

// watch re-runs send whenever the request file is written
func watch(ctx context.Context, cmd *cobra.Command, send func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	target, err := filepath.Abs(fileFlag)
	if err != nil {
		return err
	}
	// editors replace files on save, so watch the directory
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(target))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n", fileFlag)

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if name, _ := filepath.Abs(event.Name); name != target {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "\nFile changed: %s\n", event.Name)
				if err := send(); err != nil {
					log.WithError(err).Debug("send failed")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n", fileFlag)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(cmd.ErrOrStderr(), errors.Wrap(err, "watcher error"))
		}
	}
}
