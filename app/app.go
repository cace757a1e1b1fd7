package app

import (
	"github.com/formloop/formloop/auth"
	"github.com/formloop/formloop/config"
	"github.com/formloop/formloop/otp"
	"github.com/formloop/formloop/store"
)

type App struct {
	*store.Store
	Tokens *auth.Tokens
	OTP    *otp.Store
	Mail   otp.Sender
	config.Config
}
