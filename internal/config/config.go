package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Europe/Moscow"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	BookingAPI struct {
		URL      string        `env:"BOOKING_API_URL"`
		Username string        `env:"BOOKING_API_USERNAME"`
		Password string        `env:"BOOKING_API_PASSWORD"`
		Timeout  time.Duration `env:"BOOKING_API_TIMEOUT" envDefault:"10s"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"booking_engine:booking_engine"`
		BasicClients       []ConfigBasicClient
	}

	Cache struct {
		Enabled bool `env:"CACHE_ENABLED" envDefault:"true"`
		Size    int  `env:"CACHE_SIZE" envDefault:"1000"`

		// Окна устаревания по видам данных: справочники долго,
		// доступность слотов и предстоящие брони коротко
		TTL struct {
			Hospitals       time.Duration `env:"CACHE_TTL_HOSPITALS" envDefault:"5m"`
			HospitalSearch  time.Duration `env:"CACHE_TTL_HOSPITAL_SEARCH" envDefault:"2m"`
			HospitalDetail  time.Duration `env:"CACHE_TTL_HOSPITAL_DETAIL" envDefault:"10m"`
			Doctors         time.Duration `env:"CACHE_TTL_DOCTORS" envDefault:"5m"`
			DoctorDetail    time.Duration `env:"CACHE_TTL_DOCTOR_DETAIL" envDefault:"10m"`
			Specializations time.Duration `env:"CACHE_TTL_SPECIALIZATIONS" envDefault:"1h"`
			Slots           time.Duration `env:"CACHE_TTL_SLOTS" envDefault:"1m"`
			Bookings        time.Duration `env:"CACHE_TTL_BOOKINGS" envDefault:"30s"`
			BookingsPast    time.Duration `env:"CACHE_TTL_BOOKINGS_PAST" envDefault:"5m"`
			BookingDetail   time.Duration `env:"CACHE_TTL_BOOKING_DETAIL" envDefault:"1m"`
			Users           time.Duration `env:"CACHE_TTL_USERS" envDefault:"10m"`
		}
	}

	Search struct {
		// Короче этого порога текстовый поиск больниц в сеть не ходит
		MinQueryLength     int `env:"SEARCH_MIN_QUERY_LENGTH" envDefault:"2"`
		LandingHorizonDays int `env:"SEARCH_LANDING_HORIZON_DAYS" envDefault:"30"`
		DoctorHorizonDays  int `env:"SEARCH_DOCTOR_HORIZON_DAYS" envDefault:"7"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	// Разбор пар basic-auth клиентов
	if cfg.Auth.BasicClients == nil {
		cfg.Auth.BasicClients = []ConfigBasicClient{}
	}
	clientPairs := strings.Split(cfg.Auth.BasicClientsString, ",")
	for _, pair := range clientPairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			cfg.Auth.BasicClients = append(cfg.Auth.BasicClients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}

	return cfg, nil
}

// TTLFor - окно устаревания для вида данных под ключом
func (c *Config) TTLFor(kind domain.CacheKind) time.Duration {
	switch kind {
	case domain.CacheKindHospitals:
		return c.Cache.TTL.Hospitals
	case domain.CacheKindHospitalSearch:
		return c.Cache.TTL.HospitalSearch
	case domain.CacheKindHospitalDetail:
		return c.Cache.TTL.HospitalDetail
	case domain.CacheKindDoctors:
		return c.Cache.TTL.Doctors
	case domain.CacheKindDoctorDetail:
		return c.Cache.TTL.DoctorDetail
	case domain.CacheKindSpecializations:
		return c.Cache.TTL.Specializations
	case domain.CacheKindSlots:
		return c.Cache.TTL.Slots
	case domain.CacheKindBookings:
		return c.Cache.TTL.Bookings
	case domain.CacheKindBookingsPast:
		return c.Cache.TTL.BookingsPast
	case domain.CacheKindBookingDetail:
		return c.Cache.TTL.BookingDetail
	case domain.CacheKindUsers:
		return c.Cache.TTL.Users
	}

	// Незнакомый вид считаем самым волатильным
	return c.Cache.TTL.Slots
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
