package app

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/veloce/showroom/internal/adapters/httpserver"
	"github.com/veloce/showroom/internal/adapters/identity"
	"github.com/veloce/showroom/internal/adapters/payments/stripe"
	"github.com/veloce/showroom/internal/adapters/showroomapi"
	"github.com/veloce/showroom/internal/config"
	"github.com/veloce/showroom/internal/domain"
	"github.com/veloce/showroom/internal/usecase"
	"github.com/veloce/showroom/internal/views"
)

type App struct {
	Tmpl     *template.Template
	Store    *usecase.Store
	Catalog  *usecase.CatalogUC
	Profiles *usecase.ProfileUC
	Toggles  *usecase.ToggleUC
	Checkout *usecase.CheckoutUC
}

func NewApp(cfg *config.Config) (*App, error) {
	tokens := identity.New(cfg.Identity)
	api := showroomapi.New(cfg.API.BaseURL, tokens)
	widget := stripe.New(cfg.Stripe.PublishableKey, cfg.Stripe.APIBaseURL)

	store := usecase.NewStore()

	app := &App{Store: store}
	app.Catalog = &usecase.CatalogUC{Catalog: api, Store: store}
	app.Profiles = &usecase.ProfileUC{Profiles: api, Catalog: api, Store: store}
	app.Toggles = &usecase.ToggleUC{Profiles: api, Store: store}
	app.Checkout = &usecase.CheckoutUC{
		Payments:  api,
		Widget:    widget,
		ReturnURL: cfg.Server.PublicBaseURL + "/payment-confirmation",
	}

	funcMap := template.FuncMap{
		"usd": formatUSD,
		"date": func(ts string) string {
			for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
				if t, err := time.Parse(layout, ts); err == nil {
					return t.Format("Jan 2, 2006")
				}
			}
			return ts
		},
		"img": func(u string) string {
			s := strings.TrimSpace(u)
			if s == "" {
				return s
			}
			if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") && !strings.HasPrefix(s, "/") {
				s = "/" + s
			}
			s = strings.ReplaceAll(s, " ", "%20")
			return s
		},
		"actionLabel": func(a domain.ActivityAction) string { return a.Label() },
		"carName": func(id int64) string {
			if car, ok := store.Product(id); ok {
				return car.Name
			}
			return "Car #" + strconv.FormatInt(id, 10)
		},
	}

	env := strings.ToLower(cfg.Server.Env)
	isDev := env == "" || env == "development" || env == "dev"

	var tmpl *template.Template
	var err error
	if isDev {
		tmpl, err = template.New("layout").Funcs(funcMap).ParseGlob("internal/views/*.html")
	} else {
		tmpl, err = template.New("layout").Funcs(funcMap).ParseFS(views.FS, "*.html")
	}
	if err != nil {
		return nil, err
	}
	app.Tmpl = tmpl

	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.Tmpl, a.Catalog, a.Profiles, a.Toggles, a.Checkout, a.Store)
}

// formatUSD renders a backend decimal string like "125000.00" as "$125,000".
// Prices pass through untouched when they do not parse.
func formatUSD(price string) string {
	s := strings.TrimSpace(price)
	if s == "" {
		return "$0"
	}
	whole := s
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole = s[:i]
	}
	neg := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")
	for _, r := range whole {
		if r < '0' || r > '9' {
			return "$" + s
		}
	}
	n := len(whole)
	if n == 0 {
		return "$" + s
	}
	rem := n % 3
	if rem == 0 {
		rem = 3
	}
	out := whole[:rem]
	for i := rem; i < n; i += 3 {
		out += "," + whole[i:i+3]
	}
	if neg {
		out = "-" + out
	}
	return "$" + out
}
