package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// PDFRenderer turns a printable HTML page into a PDF
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html []byte, landscape bool) ([]byte, error)
}

// ChromePDFRenderer prints pages with a headless Chrome. Each call starts its
// own browser so a crashed render never affects the next one.
type ChromePDFRenderer struct {
	timeout time.Duration
	logger  *logrus.Entry
}

func NewChromePDFRenderer(timeout time.Duration) *ChromePDFRenderer {
	return &ChromePDFRenderer{
		timeout: timeout,
		logger:  logrus.WithField("component", "ChromePDFRenderer"),
	}
}

func (r *ChromePDFRenderer) RenderPDF(ctx context.Context, html []byte, landscape bool) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, r.timeout)
	defer cancelTimeout()

	startTime := time.Now()
	dataURL := "data:text/html;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(html)

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithLandscape(landscape).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome print failed: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"bytes":    len(pdf),
		"duration": time.Since(startTime),
	}).Debug("Rendered PDF")

	return pdf, nil
}
