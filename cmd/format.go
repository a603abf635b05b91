package cmd

import "fmt"

type ByteSize struct {
	bytes uint64
}

func newByteSize(bytes uint64) *ByteSize {
	return &ByteSize{bytes}
}

func (b *ByteSize) String() string {
	// format to B, KiB, MiB, GiB, TiB
	switch {
	case b.bytes < 1<<10:
		return fmt.Sprintf("%dB", b.bytes)
	case b.bytes < 1<<20:
		return fmt.Sprintf("%.2fKiB", float64(b.bytes)/(1<<10))
	case b.bytes < 1<<30:
		return fmt.Sprintf("%.2fMiB", float64(b.bytes)/(1<<20))
	case b.bytes < 1<<40:
		return fmt.Sprintf("%.2fGiB", float64(b.bytes)/(1<<30))
	default:
		return fmt.Sprintf("%.2fTiB", float64(b.bytes)/(1<<40))
	}
}
