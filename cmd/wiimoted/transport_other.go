//go:build !linux

package main

import (
	"github.com/gowiimote/wiiuse"
	"github.com/gowiimote/wiiuse/pkg/hidlib"
)

func newEnumerator() wiimote.HidEnumerator {
	return hidlib.NewEnumerator()
}
