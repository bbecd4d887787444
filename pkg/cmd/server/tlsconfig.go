package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/mpapenbr/racelog-analytics/log"
	"github.com/mpapenbr/racelog-analytics/pkg/config"
	"github.com/mpapenbr/racelog-analytics/pkg/utils/certs"
)

type certProvider struct {
	log  *log.Logger
	mu   sync.RWMutex
	cert *tls.Certificate
}

// newTLSConfig returns nil if no certificate is configured.
// Changes to the certificate files are picked up until ctx is done.
func newTLSConfig(ctx context.Context) *tls.Config {
	p := &certProvider{log: log.Default().Named("server.certs")}
	if !p.loadCert() {
		return nil
	}
	cfg := &tls.Config{
		GetCertificate: func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
			p.mu.RLock()
			defer p.mu.RUnlock()
			return p.cert, nil
		},
		MinVersion: tls.VersionTLS13,
	}
	if config.TLSCAFile != "" {
		p.log.Info("Loading ca cert", log.String("file", config.TLSCAFile))
		if pool, err := loadCAPool(config.TLSCAFile); err == nil {
			cfg.ClientCAs = pool
			cfg.ClientAuth = tls.VerifyClientCertIfGiven
		} else {
			p.log.Error("could not load TLS root CA", log.ErrorField(err))
		}
	}
	go p.watch(ctx)
	return cfg
}

func loadCAPool(file string) (*x509.CertPool, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, os.ErrInvalid
	}
	return pool, nil
}

func (p *certProvider) watch(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.log.Error("could not create fsnotify watcher", log.ErrorField(err))
		return
	}
	defer watcher.Close()
	for _, file := range []string{
		config.TraefikCerts, config.TLSCertFile, config.TLSKeyFile,
	} {
		if file == "" {
			continue
		}
		if err := watcher.Add(file); err != nil {
			p.log.Error("could not watch file",
				log.String("file", file), log.ErrorField(err))
		}
	}
	for {
		select {
		case <-ctx.Done():
			p.log.Debug("stopping cert reload")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Chmod) {
				p.log.Info("cert file changed, reloading", log.String("file", event.Name))
				p.loadCert()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.log.Error("watcher error", log.ErrorField(err))
		}
	}
}

// loadCert keeps the previous certificate if loading fails
func (p *certProvider) loadCert() bool {
	var cert tls.Certificate
	var err error
	switch {
	case config.TraefikCerts != "" && config.TraefikCertDomain != "":
		p.log.Info("Looking up acme store",
			log.String("file", config.TraefikCerts),
			log.String("domain", config.TraefikCertDomain))
		cert, err = certs.FromACMEStore(config.TraefikCerts, config.TraefikCertDomain)
	case config.TLSCertFile != "" && config.TLSKeyFile != "":
		p.log.Info("Loading cert",
			log.String("cert", config.TLSCertFile),
			log.String("key", config.TLSKeyFile))
		cert, err = tls.LoadX509KeyPair(config.TLSCertFile, config.TLSKeyFile)
	default:
		return false
	}
	if err != nil {
		p.log.Error("could not load certificate", log.ErrorField(err))
		return p.cert != nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cert = &cert
	return true
}
