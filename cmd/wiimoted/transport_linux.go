//go:build linux

package main

import (
	"github.com/gowiimote/wiiuse"
	"github.com/gowiimote/wiiuse/pkg/hidraw"
)

func newEnumerator() wiimote.HidEnumerator {
	return hidraw.NewEnumerator()
}
