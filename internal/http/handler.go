package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"go.ngs.io/praytimes/internal/domain"
	"go.ngs.io/praytimes/internal/usecase"
)

// Handler handles HTTP requests for prayer times.
type Handler struct {
	calcUC        *usecase.CalculationUseCase
	profileUC     *usecase.ProfileUseCase
	defaultMethod string
}

// NewHandler creates a new HTTP handler.
func NewHandler(calcUC *usecase.CalculationUseCase, profileUC *usecase.ProfileUseCase, defaultMethod string) *Handler {
	if defaultMethod == "" {
		defaultMethod = domain.MethodMWL
	}
	return &Handler{
		calcUC:        calcUC,
		profileUC:     profileUC,
		defaultMethod: defaultMethod,
	}
}

// writeError maps use case errors to HTTP status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, format string, args ...any) {
	c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf(format, args...)})
}

// Calculate handles POST /v1/calculate.
func (h *Handler) Calculate(c *gin.Context) {
	var req usecase.CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: %v", err)
		return
	}
	if req.Parameters.IsZero() {
		req.Parameters = usecase.MethodSpec(h.defaultMethod)
	}

	resp, err := h.calcUC.Execute(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// queryLocation parses lat, lon, elevation and ellipsoidal.
func queryLocation(c *gin.Context) (usecase.LocationInput, error) {
	var loc usecase.LocationInput

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" || lonStr == "" {
		return loc, errors.New("lat and lon parameters are required")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return loc, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return loc, fmt.Errorf("invalid longitude: %w", err)
	}
	loc.Latitude, loc.Longitude = lat, lon

	if s := c.Query("elevation"); s != "" {
		elev, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return loc, fmt.Errorf("invalid elevation: %w", err)
		}
		loc.Elevation = &elev
	}
	if s := c.Query("ellipsoidal"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return loc, fmt.Errorf("invalid ellipsoidal flag: %w", err)
		}
		loc.Ellipsoidal = b
	}
	return loc, nil
}

// queryTuning parses tune=fajr:2,isha:-1.5 into minute offsets.
func queryTuning(c *gin.Context) (*domain.TuneOffsets, error) {
	s := c.Query("tune")
	if s == "" {
		return nil, nil
	}
	var tune domain.TuneOffsets
	for _, item := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("invalid tune entry %q (expected prayer:minutes)", item)
		}
		p, err := domain.ParsePrayer(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		minutes, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid tune offset for %s: %w", p, err)
		}
		tune.Set(p, minutes)
	}
	return &tune, nil
}

func (h *Handler) queryMethod(c *gin.Context) usecase.ParamSpec {
	return usecase.MethodSpec(c.DefaultQuery("method", h.defaultMethod))
}

// GetTimes handles GET /v1/times.
func (h *Handler) GetTimes(c *gin.Context) {
	loc, err := queryLocation(c)
	if err != nil {
		badRequest(c, "%v", err)
		return
	}
	tune, err := queryTuning(c)
	if err != nil {
		badRequest(c, "%v", err)
		return
	}

	req := usecase.CalculationRequest{
		Location:   loc,
		Parameters: h.queryMethod(c),
		Tuning:     tune,
		Format:     c.Query("format"),
	}

	if s := c.Query("date"); s != "" {
		date, err := domain.ParseDate(s)
		if err != nil {
			badRequest(c, "%v", err)
			return
		}
		req.Date = date
	}

	zone, err := usecase.ParseZone(c.DefaultQuery("zone", "utc"))
	if err != nil {
		badRequest(c, "%v", err)
		return
	}
	req.Zone = zone

	resp, err := h.calcUC.Execute(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetNext handles GET /v1/next.
func (h *Handler) GetNext(c *gin.Context) {
	loc, err := queryLocation(c)
	if err != nil {
		badRequest(c, "%v", err)
		return
	}
	tune, err := queryTuning(c)
	if err != nil {
		badRequest(c, "%v", err)
		return
	}
	zone, err := usecase.ParseZone(c.DefaultQuery("zone", "utc"))
	if err != nil {
		badRequest(c, "%v", err)
		return
	}

	req := usecase.NextRequest{
		Location:   loc,
		Parameters: h.queryMethod(c),
		Tuning:     tune,
		Zone:       zone,
		Format:     c.Query("format"),
	}
	if s := c.Query("now"); s != "" {
		now, err := time.Parse(time.RFC3339, s)
		if err != nil {
			badRequest(c, "invalid now (expected RFC3339): %v", err)
			return
		}
		req.Now = now
	}

	resp, ok, err := h.calcUC.Next(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no upcoming event"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMethods handles GET /v1/methods.
func (h *Handler) GetMethods(c *gin.Context) {
	methods := h.calcUC.Methods()
	c.JSON(http.StatusOK, gin.H{
		"methods": methods,
		"count":   len(methods),
	})
}

// ListProfiles handles GET /v1/profiles.
func (h *Handler) ListProfiles(c *gin.Context) {
	profiles, err := h.profileUC.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

// GetProfile handles GET /v1/profiles/:name.
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.profileUC.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PutProfile handles PUT /v1/profiles/:name.
func (h *Handler) PutProfile(c *gin.Context) {
	var req usecase.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: %v", err)
		return
	}
	req.Name = c.Param("name")

	p, err := h.profileUC.Save(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	log.Info().Str("profile", p.Name).Str("by", c.GetString("subject")).Msg("profile saved")
	c.JSON(http.StatusOK, p)
}

// DeleteProfile handles DELETE /v1/profiles/:name.
func (h *Handler) DeleteProfile(c *gin.Context) {
	if err := h.profileUC.Delete(c.Request.Context(), c.Param("name")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProfileTimes handles GET /v1/profiles/:name/times.
func (h *Handler) GetProfileTimes(c *gin.Context) {
	req := usecase.ProfileTimesRequest{
		Name:   c.Param("name"),
		Format: c.Query("format"),
	}
	if s := c.Query("date"); s != "" {
		date, err := domain.ParseDate(s)
		if err != nil {
			badRequest(c, "%v", err)
			return
		}
		req.Date = date
	}
	zone, err := usecase.ParseZone(c.DefaultQuery("zone", "utc"))
	if err != nil {
		badRequest(c, "%v", err)
		return
	}
	req.Zone = zone

	resp, err := h.profileUC.Times(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
