package scheduler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Pinger sends a best-effort GET to a healthcheck URL on a fixed interval.
// It shares nothing with the birthday loop.
type Pinger struct {
	cronEngine *cron.Cron
	client     *http.Client
	url        string
	interval   time.Duration
	logger     *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPinger(url string, interval, timeout time.Duration, logger *logrus.Entry) *Pinger {
	cronLogger := cron.PrintfLogger(logger)
	ctx, cancel := context.WithCancel(context.Background())
	return &Pinger{
		cronEngine: cron.New(cron.WithLogger(cronLogger), cron.WithChain(cron.SkipIfStillRunning(cronLogger))),
		client:     &http.Client{Timeout: timeout},
		url:        url,
		interval:   interval,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start pings once right away and then every interval.
func (p *Pinger) Start() error {
	_, err := p.cronEngine.AddFunc(fmt.Sprintf("@every %s", p.interval), func() {
		_ = p.Ping(p.ctx)
	})
	if err != nil {
		return fmt.Errorf("could not add healthcheck job: %w", err)
	}
	p.cronEngine.Start()
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		_ = p.Ping(p.ctx)
	}()
	p.logger.WithField("interval", p.interval.String()).Info("Started healthcheck pinger")
	return nil
}

// Ping sends one request. Failures are logged and returned but never retried.
func (p *Pinger) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.logger.WithError(err).Error("Could not build healthcheck request")
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.WithError(err).Warn("Could not send healthcheck request")
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode >= 400 {
		err = fmt.Errorf("healthcheck responded %s", resp.Status)
		p.logger.WithError(err).Warn("Healthcheck ping rejected")
		return err
	}
	p.logger.Debug("Healthcheck ping sent")
	return nil
}

// Stop cancels in-flight pings and waits for them to return.
func (p *Pinger) Stop() {
	p.logger.Info("Stopping healthcheck pinger...")
	p.cancel()
	ctx := p.cronEngine.Stop()
	<-ctx.Done()
	p.wg.Wait()
}
