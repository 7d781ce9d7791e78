// Command oauth-init walks through the one-time Google OAuth consent
// flow and writes the refresh token the Gmail mailer reads at startup.
// It shares its credential environment variables with
// internal/notify/gmail.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
)

func main() {
	port := flag.String("port", "8085", "local port for the OAuth redirect (http://localhost:<port>/callback must be an authorized redirect URI)")
	out := flag.String("out", "", "token output file (default GOOGLE_OAUTH_TOKEN_FILE or token.json)")
	timeout := flag.Duration("timeout", 5*time.Minute, "how long to wait for the browser authorization")
	flag.Parse()

	cfg, err := oauthConfig()
	if err != nil {
		log.Fatal(err)
	}
	cfg.RedirectURL = "http://localhost:" + *port + "/callback"

	outFile := *out
	if outFile == "" {
		outFile = os.Getenv("GOOGLE_OAUTH_TOKEN_FILE")
	}
	if outFile == "" {
		outFile = "token.json"
	}

	codeCh := make(chan string, 1)
	mux := http.NewServeMux()
	srv := &http.Server{Addr: ":" + *port, Handler: mux}
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if errStr := r.URL.Query().Get("error"); errStr != "" {
			http.Error(w, "authorization failed: "+errStr, http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Authorized. You can close this window.")
		codeCh <- r.URL.Query().Get("code")
		go func() { time.Sleep(500 * time.Millisecond); _ = srv.Close() }()
	})
	go func() { _ = srv.ListenAndServe() }()

	fmt.Println("Authorize finbook to send mail on your behalf:")
	fmt.Println()
	fmt.Println("  " + cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline))
	fmt.Println()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	select {
	case code := <-codeCh:
		tok, err := cfg.Exchange(context.Background(), code)
		if err != nil {
			log.Fatalf("token exchange: %v", err)
		}
		if err := writeToken(outFile, tok); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Token saved to %s. Set GOOGLE_OAUTH_TOKEN_FILE=%s for the server and worker.\n", outFile, outFile)
	case <-time.After(*timeout):
		log.Fatal("authorization timed out")
	case <-interrupt:
		log.Fatal("interrupted")
	}
}

// oauthConfig loads the OAuth client the same way the Gmail mailer
// does, so a credential that works here works at runtime too.
func oauthConfig() (*oauth2.Config, error) {
	var b []byte
	var err error
	switch {
	case os.Getenv("GOOGLE_OAUTH_CLIENT_JSON") != "":
		b = []byte(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
	case os.Getenv("GOOGLE_OAUTH_CLIENT_FILE") != "":
		b, err = os.ReadFile(os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))
		if err != nil {
			return nil, fmt.Errorf("read oauth client file: %w", err)
		}
	default:
		return nil, fmt.Errorf("set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE")
	}
	return google.ConfigFromJSON(b, gmailapi.GmailSendScope)
}

func writeToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}
