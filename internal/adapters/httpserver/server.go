package httpserver

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/veloce/showroom/internal/adapters/report"
	"github.com/veloce/showroom/internal/domain"
	"github.com/veloce/showroom/internal/usecase"
)

type Server struct {
	tmpl     *template.Template
	catalog  *usecase.CatalogUC
	profiles *usecase.ProfileUC
	toggles  *usecase.ToggleUC
	checkout *usecase.CheckoutUC
	store    *usecase.Store
	router   chi.Router

	feedMu sync.Mutex
	feed   *usecase.ActivityFeed
}

func New(t *template.Template, catalog *usecase.CatalogUC, profiles *usecase.ProfileUC, toggles *usecase.ToggleUC, checkout *usecase.CheckoutUC, store *usecase.Store) http.Handler {
	s := &Server{
		tmpl:     t,
		catalog:  catalog,
		profiles: profiles,
		toggles:  toggles,
		checkout: checkout,
		store:    store,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s.router
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)

	s.router.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.Dir("public"))))

	s.router.Get("/", s.handleHome)
	s.router.Get("/cars/type/{carType}", s.handleFilteredCars)
	s.router.Get("/cars/new", s.handleNewCarForm)
	s.router.Post("/cars/new", s.handleCreateCar)
	s.router.Get("/cars/{id}", s.handleCar)
	s.router.Post("/cars/{id}/reviews", s.handleSubmitReview)

	s.router.Post("/favorites/{id}/toggle", s.handleToggle(domain.RelationFavorite))
	s.router.Post("/bookmarks/{id}/toggle", s.handleToggle(domain.RelationBookmark))

	s.router.Get("/profile", s.handleProfile)
	s.router.Post("/profile/edit", s.handleProfileEdit)
	s.router.Post("/profile/activity", s.handleActivityNext)
	s.router.Get("/profile/activity/export", s.handleActivityExport)
	s.router.Get("/profile/stalk/{id}", s.handleStalk)

	s.router.Get("/checkout/{id}", s.handleCheckout)
	s.router.Post("/checkout/{id}/confirm", s.handleCheckoutConfirm)
	s.router.Get("/payment-confirmation", s.handlePaymentConfirmation)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Flash": readFlash(w, r)}
	cars, err := s.catalog.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load showroom")
		data["Error"] = true
	} else {
		data["Cars"] = cars
	}
	s.render(w, "home.html", data)
}

func (s *Server) handleFilteredCars(w http.ResponseWriter, r *http.Request) {
	carType := domain.CarType(chi.URLParam(r, "carType"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 12
	}
	data := map[string]any{
		"Flash":   readFlash(w, r),
		"Heading": headingFor(carType),
	}
	cars, err := s.catalog.Filtered(r.Context(), carType, limit)
	if err != nil {
		if domain.IsValidation(err) {
			http.NotFound(w, r)
			return
		}
		log.Error().Err(err).Str("car_type", string(carType)).Msg("load filtered cars")
		data["Error"] = true
	} else {
		data["Cars"] = cars
	}
	s.render(w, "cars.html", data)
}

func headingFor(t domain.CarType) string {
	switch t {
	case domain.CarTypeClassic:
		return "Classic Cars"
	case domain.CarTypeLuxury:
		return "Luxury Cars"
	case domain.CarTypeElectrical:
		return "Electric Cars"
	}
	return "Cars"
}

func (s *Server) handleCar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	data := map[string]any{"Flash": readFlash(w, r)}
	car, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("load car")
		data["Error"] = true
		s.render(w, "car.html", data)
		return
	}
	// Review failures degrade to an empty list; the car page still renders.
	reviews, err := s.catalog.Reviews(r.Context(), id)
	if err != nil {
		log.Warn().Err(err).Int64("id", id).Msg("load reviews")
	}
	data["Car"] = car
	data["Reviews"] = reviews
	data["IsFavorite"] = s.store.Member(domain.RelationFavorite, id)
	data["IsBookmarked"] = s.store.Member(domain.RelationBookmark, id)
	s.render(w, "car.html", data)
}

func (s *Server) handleNewCarForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "car_new.html", map[string]any{
		"Flash": readFlash(w, r),
		"Draft": domain.CarDraft{CarType: domain.CarTypeClassic},
	})
}

func (s *Server) handleCreateCar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	draft := domain.CarDraft{
		Name:         r.FormValue("name"),
		Description:  r.FormValue("description"),
		Price:        r.FormValue("price"),
		CarType:      domain.CarType(r.FormValue("car_type")),
		Engine:       r.FormValue("engine"),
		Power:        r.FormValue("power"),
		Torque:       r.FormValue("torque"),
		Transmission: r.FormValue("transmission"),
		KeyFeatures:  splitFeatures(r.FormValue("key_features")),
	}
	draft.StockQuantity, _ = strconv.Atoi(r.FormValue("stock_quantity"))
	if file, hdr, err := r.FormFile("image"); err == nil {
		defer file.Close()
		draft.Image = &domain.FileUpload{Name: hdr.Filename, Reader: file}
	}

	car, err := s.catalog.Create(r.Context(), draft)
	if err != nil {
		// Validation stays on the form; everything else is a toast.
		if domain.IsValidation(err) {
			s.render(w, "car_new.html", map[string]any{"Draft": draft, "FormError": err.Error()})
			return
		}
		if errors.Is(err, domain.ErrAuthRequired) {
			s.flashAndRedirect(w, r, domain.NoticeError, "Please sign in to list a car", "/cars/new")
			return
		}
		s.flashAndRedirect(w, r, domain.NoticeError, "Failed to create listing", "/cars/new")
		return
	}
	s.flashAndRedirect(w, r, domain.NoticeSuccess, "Listing created", "/cars/"+strconv.FormatInt(car.ID, 10))
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	back := "/cars/" + strconv.FormatInt(id, 10)
	if _, err := s.catalog.SubmitReview(r.Context(), id, r.FormValue("review")); err != nil {
		switch {
		case domain.IsValidation(err):
			s.flashAndRedirect(w, r, domain.NoticeError, "Please enter a review", back)
		case errors.Is(err, domain.ErrAuthRequired):
			s.flashAndRedirect(w, r, domain.NoticeError, "Please sign in to write a review", back)
		default:
			s.flashAndRedirect(w, r, domain.NoticeError, "Failed to submit review", back)
		}
		return
	}
	s.flashAndRedirect(w, r, domain.NoticeSuccess, "Review submitted successfully", back)
}

func (s *Server) handleToggle(rel domain.Relation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		back := r.Header.Get("Referer")
		if back == "" {
			back = "/cars/" + strconv.FormatInt(id, 10)
		}
		res, err := s.toggles.Toggle(r.Context(), rel, id)
		if errors.Is(err, domain.ErrAuthRequired) {
			s.flashAndRedirect(w, r, domain.NoticeError, "Please sign in to add "+rel.Noun(), back)
			return
		}
		if err != nil {
			log.Warn().Err(err).Str("relation", string(rel)).Int64("car_id", id).Msg("toggle settled with rollback")
		}
		s.flashAndRedirect(w, r, res.Level, res.Message, back)
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Flash": readFlash(w, r)}
	profile, err := s.profiles.Own(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) {
			data["AuthRequired"] = true
		} else {
			log.Error().Err(err).Msg("load profile")
			data["Error"] = true
		}
		s.render(w, "profile.html", data)
		return
	}

	// The feed survives across renders so "load more" accumulates; only the
	// first visit creates it and pulls page one.
	s.feedMu.Lock()
	feed := s.feed
	fresh := feed == nil
	if fresh {
		feed = s.profiles.OwnFeed()
		s.feed = feed
	}
	s.feedMu.Unlock()
	if fresh {
		if err := feed.FetchNext(r.Context()); err != nil {
			log.Warn().Err(err).Msg("load activity")
		}
	}

	favorites, err := s.profiles.CarsByIDs(r.Context(), profile.FavoriteCars)
	if err != nil {
		log.Warn().Err(err).Msg("hydrate favorites")
	}
	bookmarks, err := s.profiles.CarsByIDs(r.Context(), profile.BookmarkedCars)
	if err != nil {
		log.Warn().Err(err).Msg("hydrate bookmarks")
	}

	data["Profile"] = profile
	data["FavoriteCars"] = favorites
	data["BookmarkedCars"] = bookmarks
	data["Activity"] = feed.Items()
	data["HasMore"] = feed.HasMore()
	s.render(w, "profile.html", data)
}

func (s *Server) handleProfileEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	upd := domain.ProfileUpdate{
		Name:        formPtr(r, "name"),
		Location:    formPtr(r, "location"),
		ContactInfo: formPtr(r, "contact_info"),
		Bio:         formPtr(r, "bio"),
	}
	if file, hdr, err := r.FormFile("profile_picture"); err == nil {
		defer file.Close()
		upd.Picture = &domain.FileUpload{Name: hdr.Filename, Reader: file}
	}
	if _, err := s.profiles.Update(r.Context(), upd); err != nil {
		if errors.Is(err, domain.ErrAuthRequired) {
			s.flashAndRedirect(w, r, domain.NoticeError, "Please sign in first", "/profile")
			return
		}
		s.flashAndRedirect(w, r, domain.NoticeError, "Failed to update profile", "/profile")
		return
	}
	s.flashAndRedirect(w, r, domain.NoticeSuccess, "Profile updated", "/profile")
}

func (s *Server) handleActivityNext(w http.ResponseWriter, r *http.Request) {
	s.feedMu.Lock()
	feed := s.feed
	s.feedMu.Unlock()
	if feed != nil {
		if err := feed.FetchNext(r.Context()); err != nil {
			s.flashAndRedirect(w, r, domain.NoticeError, "Failed to load more activity", "/profile")
			return
		}
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (s *Server) handleActivityExport(w http.ResponseWriter, r *http.Request) {
	s.feedMu.Lock()
	feed := s.feed
	s.feedMu.Unlock()
	if feed == nil {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	items := feed.Items()
	names := make(map[int64]string, len(items))
	for _, it := range items {
		if car, ok := s.store.Product(it.Product); ok {
			names[it.Product] = car.Name
		}
	}
	f, err := report.ActivityWorkbook(items, names)
	if err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="activity.xlsx"`)
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("write activity export")
	}
}

func (s *Server) handleStalk(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	data := map[string]any{"Flash": readFlash(w, r)}
	profile, err := s.profiles.Stalk(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("load stalked profile")
		data["Error"] = true
		s.render(w, "stalk.html", data)
		return
	}

	feed := s.profiles.StalkFeed(id)
	if err := feed.FetchNext(r.Context()); err != nil {
		log.Warn().Err(err).Int64("id", id).Msg("load stalked activity")
	}
	favorites, err := s.profiles.CarsByIDs(r.Context(), profile.FavoriteCars)
	if err != nil {
		log.Warn().Err(err).Int64("id", id).Msg("hydrate stalked favorites")
	}

	data["Profile"] = profile
	data["FavoriteCars"] = favorites
	data["Activity"] = feed.Items()
	s.render(w, "stalk.html", data)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	quantity, _ := strconv.Atoi(r.URL.Query().Get("quantity"))
	if quantity < 1 {
		quantity = 1
	}
	data := map[string]any{"Flash": readFlash(w, r), "CarID": id}

	session, err := s.checkout.Begin(r.Context(), id, quantity)
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) {
			s.flashAndRedirect(w, r, domain.NoticeError, "Please sign in to make a purchase", "/cars/"+strconv.FormatInt(id, 10))
			return
		}
		log.Error().Err(err).Int64("car_id", id).Msg("create payment intent")
		data["Error"] = true
		s.render(w, "checkout.html", data)
		return
	}
	if car, ok := s.store.Product(id); ok {
		data["Car"] = car
	}
	data["Session"] = session
	s.render(w, "checkout.html", data)
}

func (s *Server) handleCheckoutConfirm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	quantity, _ := strconv.Atoi(r.FormValue("quantity"))
	session := &domain.CheckoutSession{
		Phase:        domain.PhaseConfirming,
		CarID:        id,
		Quantity:     quantity,
		ClientSecret: r.FormValue("client_secret"),
	}
	card := domain.CardDetails{
		Number:   r.FormValue("card_number"),
		ExpMonth: r.FormValue("exp_month"),
		ExpYear:  r.FormValue("exp_year"),
		CVC:      r.FormValue("cvc"),
	}
	addr := domain.ShippingAddress{
		Line1:      r.FormValue("line1"),
		City:       r.FormValue("city"),
		PostalCode: r.FormValue("postal_code"),
		Country:    r.FormValue("country"),
	}

	session = s.checkout.ConfirmInPage(r.Context(), session, card, addr)
	switch session.Phase {
	case domain.PhaseSucceeded:
		s.render(w, "confirmation.html", map[string]any{"Success": true})
	case domain.PhaseVerifyingAfterRedirect:
		http.Redirect(w, r, session.RedirectURL, http.StatusSeeOther)
	default:
		s.render(w, "confirmation.html", map[string]any{"Success": false})
	}
}

func (s *Server) handlePaymentConfirmation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	intentID := q.Get("payment_intent")
	clientSecret := q.Get("payment_intent_client_secret")

	order, err := s.checkout.VerifyAfterRedirect(r.Context(), intentID, clientSecret)
	if err != nil {
		log.Warn().Err(err).Msg("payment verification failed")
		s.render(w, "confirmation.html", map[string]any{"Success": false})
		return
	}
	s.render(w, "confirmation.html", map[string]any{"Success": true, "Order": order})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render")
	}
}

func formPtr(r *http.Request, key string) *string {
	vs, ok := r.MultipartForm.Value[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	return &vs[0]
}

func splitFeatures(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
