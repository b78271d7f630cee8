package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/amirasaad/fxconvert/pkg/currency"
	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/amirasaad/fxconvert/pkg/money"
	"github.com/amirasaad/fxconvert/pkg/service/exchange"
	"github.com/fatih/color"
)

var errUsage = errors.New("invalid arguments")

// CLI runs one command against the conversion service.
type CLI struct {
	svc *exchange.Service
	out *printer
}

// Execute dispatches args[0] to its command.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w\n%s", errUsage, usage)
	}
	switch args[0] {
	case "convert":
		if len(args) != 4 {
			return fmt.Errorf("%w: convert <amount> <BASE> <TARGET>", errUsage)
		}
		return c.convert(ctx, args[1], args[2], args[3])
	case "rate":
		if len(args) != 3 {
			return fmt.Errorf("%w: rate <BASE> <TARGET>", errUsage)
		}
		return c.rate(ctx, args[1], args[2])
	case "currencies":
		c.currencies()
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q\n%s", errUsage, args[0], usage)
	}
}

func parsePair(base, target string) (currency.Code, currency.Code, error) {
	from, err := currency.Parse(base)
	if err != nil {
		return "", "", err
	}
	to, err := currency.Parse(target)
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}

func (c *CLI) convert(ctx context.Context, rawAmount, base, target string) error {
	amount, err := money.ParseAmount(rawAmount)
	if err != nil {
		return fmt.Errorf("%w: amount %q is not a number", errUsage, rawAmount)
	}
	if amount < currency.MinAmount {
		return fmt.Errorf("%w: amount must be at least %.2f", errUsage, currency.MinAmount)
	}
	from, to, err := parsePair(base, target)
	if err != nil {
		return err
	}

	res, err := c.svc.Convert(ctx, nil, exchange.Request{Base: from, Target: to, Amount: amount})
	if err != nil {
		return fmt.Errorf("%s: %w", domain.UserMessage(err), err)
	}

	c.out.Result("%s %s = %s %s",
		money.FormatGrouped(res.Amount, money.Places), res.Base,
		money.FormatGrouped(res.Converted, money.Places), res.Target)
	c.out.Info("1 %s = %s %s", res.Base, res.Rate.Display(), res.Target)
	c.out.Muted("Last updated: %s", res.Timestamp.Format("2006-01-02 15:04:05"))
	if len(res.Popular) > 0 {
		c.out.Heading("Popular rates")
		for _, p := range res.Popular {
			c.out.Info("  1 %s = %s %s", res.Base, strconv.FormatFloat(p.Rate, 'f', 3, 64), p.Currency)
		}
	}
	return nil
}

func (c *CLI) rate(ctx context.Context, base, target string) error {
	from, to, err := parsePair(base, target)
	if err != nil {
		return err
	}
	rate, err := c.svc.GetExchangeRate(ctx, from, to)
	if err != nil {
		return fmt.Errorf("%s: %w", domain.UserMessage(err), err)
	}
	c.out.Result("1 %s = %s %s", from, rate.Display(), to)
	c.out.Muted("Source: %s", rate.Source)
	return nil
}

func (c *CLI) currencies() {
	c.out.Heading("Supported currencies")
	for _, meta := range currency.Supported() {
		c.out.Info("  %s  %-20s %s", meta.Code, meta.Name, meta.Symbol)
	}
}

// printer writes coloured output when attached to a terminal.
type printer struct {
	w       io.Writer
	errW    io.Writer
	result  *color.Color
	heading *color.Color
	info    *color.Color
	muted   *color.Color
	err     *color.Color
}

func newPrinter(w, errW io.Writer, tty bool) *printer {
	p := &printer{
		w:       w,
		errW:    errW,
		result:  color.New(color.FgGreen, color.Bold),
		heading: color.New(color.FgCyan, color.Bold),
		info:    color.New(color.Reset),
		muted:   color.New(color.FgHiBlack),
		err:     color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.result, p.heading, p.info, p.muted, p.err} {
		if tty {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) Result(format string, a ...any) { p.result.Fprintf(p.w, format+"\n", a...) }

func (p *printer) Heading(format string, a ...any) { p.heading.Fprintf(p.w, format+"\n", a...) }

func (p *printer) Info(format string, a ...any) { p.info.Fprintf(p.w, format+"\n", a...) }

func (p *printer) Muted(format string, a ...any) { p.muted.Fprintf(p.w, format+"\n", a...) }

func (p *printer) Error(err error) { p.err.Fprintf(p.errW, "Error: %v\n", err) }
