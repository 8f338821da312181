package booking

import (
	"github.com/coursebay/coursebay/internal/booking/repository"
	"github.com/coursebay/coursebay/internal/booking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("booking.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
