package exporter

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"prosafe_exporter/nsdp"
	"prosafe_exporter/prosafe"
)

const landingPage = `<html>
<head><title>ProSAFE Exporter</title></head>
<body>
<h1>ProSAFE Exporter</h1>
<form action="/probe">
<label>Target:</label> <input type="text" name="target" placeholder="1.2.3.4:eth0"><br>
<input type="submit" value="Submit">
</form>
</body>
</html>
`

// Handler serves /probe?target=host:ifname, /metrics for the static target
// and the landing page everywhere else.
type Handler struct {
	// Target is probed by /metrics; when zero /metrics shows the landing page.
	Target prosafe.Target
	// NewSwitch builds the client for a target; Target.Switch when nil.
	NewSwitch func(prosafe.Target) *prosafe.Switch
	Timeout   time.Duration

	locks prosafe.Locks
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/probe":
		target, err := prosafe.ParseTarget(r.URL.Query().Get("target"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.serveProbe(w, r, target, "")
	case "/metrics":
		if h.Target.IsZero() {
			h.serveLanding(w)
			return
		}
		h.serveProbe(w, r, h.Target, h.Target.String())
	default:
		h.serveLanding(w)
	}
}

func (h *Handler) serveProbe(w http.ResponseWriter, r *http.Request, target prosafe.Target, instance string) {
	sw := h.newSwitch(target)
	reg := Probe(sw, instance, &h.locks)
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

func (h *Handler) newSwitch(target prosafe.Target) *prosafe.Switch {
	var sw *prosafe.Switch
	if h.NewSwitch != nil {
		sw = h.NewSwitch(target)
	} else {
		sw = target.Switch()
	}
	if h.Timeout > 0 {
		if sw.Transport == nil {
			sw.Transport = nsdp.DefaultTransport()
		}
		sw.Transport.Timeout = h.Timeout
	}
	return sw
}

func (h *Handler) serveLanding(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(landingPage))
}

// ListenAndServe runs the exporter on addr until SIGINT or SIGTERM.
func ListenAndServe(addr string, h *Handler) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "Failed to listen")
	}
	log.Infof("Listening on %s", listener.Addr().String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Serve(ctx, listener, h)
}

// Serve runs the exporter on listener until ctx is done, then shuts down
// gracefully.
func Serve(ctx context.Context, listener net.Listener, h *Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "Failed to serve")
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		log.Info("👋 Interrupted. Bye!")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
