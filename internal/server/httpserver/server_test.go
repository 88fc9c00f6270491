package httpserver

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	s := New(Config{Addr: ":8080", ReadHeaderTimeout: 3 * time.Second}, okHandler())
	if s == nil {
		t.Fatal("New returned nil")
	}
	if s.httpServer.ReadHeaderTimeout != 3*time.Second {
		t.Errorf("ReadHeaderTimeout = %v, want 3s", s.httpServer.ReadHeaderTimeout)
	}
	if s.httpServer.WriteTimeout != 0 {
		t.Errorf("WriteTimeout = %v, want none", s.httpServer.WriteTimeout)
	}
}

func TestConfig_TLSEnabled(t *testing.T) {
	if (Config{}).TLSEnabled() {
		t.Error("empty config should not enable TLS")
	}
	if (Config{TLSCertFile: "c.pem"}).TLSEnabled() {
		t.Error("cert without key should not enable TLS")
	}
	if !(Config{TLSCertFile: "c.pem", TLSKeyFile: "k.pem"}).TLSEnabled() {
		t.Error("cert and key should enable TLS")
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	s := New(Config{ReadHeaderTimeout: time.Second}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "pong")
	}))

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve(ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("body = %q, want pong", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("Serve returned unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("timeout waiting for Serve to return")
	}
}
