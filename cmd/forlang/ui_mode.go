package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the value of --ui.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	v := uiMode(strings.ToLower(strings.TrimSpace(value)))
	if v == "" {
		return uiModeAuto, nil
	}
	for _, m := range []uiMode{uiModeAuto, uiModeOn, uiModeOff} {
		if v == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("--ui: unknown mode %q, want auto, on or off", value)
}

// shouldUseTUI: auto включает прогресс только для нескольких файлов и только в терминале.
func shouldUseTUI(mode uiMode, files int) bool {
	if mode == uiModeAuto {
		return files > 1 && isTerminal(os.Stdout)
	}
	return mode == uiModeOn
}
