package panel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/hkmoud/fogsign/internal/logger"
)

// SPIOpts configures the SPI panel link.
type SPIOpts struct {
	// Frequency of the SPI clock. Defaults to 10MHz.
	Frequency physic.Frequency

	// RST is an optional hardware reset pin.
	RST gpio.PinIO
}

// SPIPanel pushes a framebuffer to an SPI-attached matrix controller.
// Drawing still happens against the framebuffer; a flush converts the
// frame to RGB565, applies the global brightness, and sends it in one
// transaction framed by the data/command pin.
type SPIPanel struct {
	*Framebuffer

	c      conn.Conn
	dc     gpio.PinOut
	rst    gpio.PinIO
	out    []byte
	log    *logger.Logger
	halted bool
}

// NewSPI connects the framebuffer to an SPI port. The dc pin selects
// between command and pixel-data transfers.
func NewSPI(p spi.Port, dc gpio.PinOut, fb *Framebuffer, log *logger.Logger, opts *SPIOpts) (*SPIPanel, error) {
	if opts == nil {
		opts = &SPIOpts{}
	}
	freq := opts.Frequency
	if freq == 0 {
		freq = 10 * physic.MegaHertz
	}

	c, err := p.Connect(freq, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("spi connect: %w", err)
	}

	d := &SPIPanel{
		Framebuffer: fb,
		c:           c,
		dc:          dc,
		rst:         opts.RST,
		out:         make([]byte, fb.Width()*fb.Height()*2),
		log:         log,
	}
	if err := d.reset(); err != nil {
		return nil, err
	}
	return d, nil
}

// reset pulses the optional hardware reset pin.
func (d *SPIPanel) reset() error {
	if d.rst == nil {
		return nil
	}
	if err := d.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("rst low: %w", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("rst high: %w", err)
	}
	time.Sleep(10 * time.Millisecond)
	return nil
}

// Flush sends the current frame to the controller.
func (d *SPIPanel) Flush() error {
	if d.halted {
		return errors.New("panel halted")
	}

	pix := d.Snapshot()
	level := uint16(d.Brightness())
	for i, c := range pix {
		r := uint16(c.R) * level / 255
		g := uint16(c.G) * level / 255
		b := uint16(c.B) * level / 255
		v := (r >> 3 << 11) | (g >> 2 << 5) | (b >> 3)
		d.out[2*i] = byte(v >> 8)
		d.out[2*i+1] = byte(v)
	}

	if err := d.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("dc high: %w", err)
	}
	return d.c.Tx(d.out, nil)
}

// Run flushes the frame at the given rate until ctx is cancelled.
// Intended to be called as a goroutine next to the animation loop.
func (d *SPIPanel) Run(ctx context.Context, fps int) {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.Flush(); err != nil {
				d.log.Error("panel flush: %v", err)
				return
			}
		}
	}
}

// Halt blanks the panel and stops further flushes.
func (d *SPIPanel) Halt() error {
	d.Clear()
	err := d.Flush()
	d.halted = true
	return err
}
