// Package logic implements the host commands served over TCP. Every command
// takes the payload after the two-character command code and returns the
// full response, response code and "00" included.
package logic

import (
	"github.com/rs/zerolog/log"
)

func logDebug(cmd, msg string) {
	log.Debug().Str("command", cmd).Msg(msg)
}

func logInfo(cmd, msg string) {
	log.Info().Str("command", cmd).Msg(msg)
}
