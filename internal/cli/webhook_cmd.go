package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/cursoragents/internal/config"
	"github.com/watchfire-io/cursoragents/internal/models"
	"github.com/watchfire-io/cursoragents/internal/webhook"
)

func newWebhookCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Sign, verify and receive webhook deliveries",
		Long: `Sign, verify and receive webhook deliveries.

Deliveries carry an HMAC-SHA256 of the raw body, keyed with the webhook
secret, in the ` + webhook.SignatureHeader + ` header. The secret defaults to
` + config.WebhookSecretEnv + ` from the environment or env file.`,
	}
	cmd.AddCommand(newWebhookSignCmd(root))
	cmd.AddCommand(newWebhookVerifyCmd(root))
	cmd.AddCommand(newWebhookServeCmd(root))
	return cmd
}

// webhookSecret returns the --secret flag or the configured secret.
func (o *rootOptions) webhookSecret(flag string, required bool) (string, error) {
	if flag != "" {
		return flag, nil
	}
	r, err := o.resolver()
	if err != nil {
		return "", err
	}
	if v, ok := r.Lookup(config.WebhookSecretEnv); ok && v != "" {
		return v, nil
	}
	if required {
		return "", validationError("--secret", "webhook secret required (or set %s)", config.WebhookSecretEnv)
	}
	return "", nil
}

// readPayload reads the body from path, or from in when path is "" or "-".
func readPayload(path string, in io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(in)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return data, nil
}

func newWebhookSignCmd(root *rootOptions) *cobra.Command {
	var secret, file string

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print the signature for a payload",
		Example: `  cursoragents webhook sign --secret "$SECRET" --file payload.json
  echo '{"id":"bc_abc123"}' | cursoragents webhook sign`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := root.webhookSecret(secret, true)
			if err != nil {
				return explain(err, "", "")
			}
			body, err := readPayload(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), webhook.Sign([]byte(key), body))
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Webhook secret")
	cmd.Flags().StringVar(&file, "file", "", "Payload file (default: stdin)")
	return cmd
}

func newWebhookVerifyCmd(root *rootOptions) *cobra.Command {
	var secret, file, signature string

	cmd := &cobra.Command{
		Use:     "verify",
		Short:   "Check a payload against its signature",
		Example: `  cursoragents webhook verify --file payload.json --signature sha256=68b8...`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := root.printer(cmd)
			key, err := root.webhookSecret(secret, true)
			if err != nil {
				return explain(err, "", "")
			}
			body, err := readPayload(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := webhook.Verify([]byte(key), body, signature); err != nil {
				return err
			}
			p.success("Signature valid")
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Webhook secret")
	cmd.Flags().StringVar(&file, "file", "", "Payload file (default: stdin)")
	cmd.Flags().StringVar(&signature, "signature", "", "Value of the "+webhook.SignatureHeader+" header")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}

func newWebhookServeCmd(root *rootOptions) *cobra.Command {
	var secret, addr, path string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local receiver that prints verified deliveries",
		Long: `Run a local receiver that prints verified deliveries.

Expose it with a tunnel and pass its public URL as --webhook-url to launch.
Without a secret, signatures are not checked.`,
		Example: `  cursoragents webhook serve --addr :8080 --secret "$SECRET"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := root.webhookSecret(secret, false)
			if err != nil {
				return err
			}
			return runWebhookServe(cmd, root, key, addr, path)
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Webhook secret")
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	cmd.Flags().StringVar(&path, "path", "/webhook", "Request path")
	return cmd
}

func runWebhookServe(cmd *cobra.Command, root *rootOptions, secret, addr, path string) error {
	p := root.printer(cmd)
	logger := log.New(cmd.ErrOrStderr(), "[webhook] ", log.LstdFlags)

	if secret == "" {
		p.warn("no webhook secret configured, signatures will not be verified")
	} else if len(secret) < models.RecommendedWebhookSecretLen {
		p.warn("Webhook secret should be at least %d characters", models.RecommendedWebhookSecretLen)
	}

	handler := webhook.NewHandler(secret, logger, newEventPrinter(p))

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Printf("Listening on http://%s%s", addr, path)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Printf("Received signal %v, shutting down...", sig)
	case <-cmd.Context().Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("webhook server: %w", err)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// newEventPrinter returns an event callback that is safe for concurrent
// deliveries: each event's lines are written together.
func newEventPrinter(p *printer) func(*models.WebhookEvent) {
	var mu sync.Mutex
	return func(event *models.WebhookEvent) {
		mu.Lock()
		defer mu.Unlock()
		if p.json {
			_ = p.printRaw(event.Raw, event)
			return
		}
		printWebhookEvent(p, event)
	}
}

func printWebhookEvent(p *printer, event *models.WebhookEvent) {
	p.printf("%s %s %s → %s\n",
		styleHint.Render(event.Event.Timestamp.Format(time.RFC3339)),
		styleValue.Render(event.ID),
		string(event.Event.PreviousStatus),
		statusBadge(event.Status),
	)
	if event.Summary != "" {
		p.field("  ", "Summary", truncate(event.Summary, summaryWidth))
	}
	if branch := event.BranchName(); branch != "" {
		p.field("  ", "Branch", branch)
	}
	if event.Target != nil && event.Target.PRURL != "" {
		p.field("  ", "PR", event.Target.PRURL)
	}
}
