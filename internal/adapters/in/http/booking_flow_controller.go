package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/hospital-booking-engine/internal/config"
	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/json_types"
	"github.com/suchimauz/hospital-booking-engine/internal/core/ports/in"
	"github.com/suchimauz/hospital-booking-engine/internal/core/ports/out"
)

type BookingFlowController struct {
	searchUseCase  in.SearchUseCase
	bookingUseCase in.BookingUseCase
	cfg            *config.Config
	logger         out.LoggerPort
}

func NewBookingFlowController(
	searchUseCase in.SearchUseCase,
	bookingUseCase in.BookingUseCase,
	cfg *config.Config,
	logger out.LoggerPort,
) *BookingFlowController {
	return &BookingFlowController{
		searchUseCase:  searchUseCase,
		bookingUseCase: bookingUseCase,
		cfg:            cfg,
		logger:         logger,
	}
}

func (c *BookingFlowController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.GET("/hospitals", c.getHospitals)
		api.GET("/hospitals/search", c.searchHospitals)
		api.GET("/hospitals/city/:city", c.getHospitalsByCity)
		api.GET("/hospitals/:id", c.getHospital)

		api.GET("/doctors", c.getDoctors)
		api.GET("/doctors/specializations", c.getSpecializations)
		api.GET("/doctors/:id", c.getDoctor)
		api.GET("/doctors/:id/slots", c.getDoctorSlots)

		api.POST("/slots/search", c.searchSlots)
		api.GET("/slots/dates", c.getAvailableDates)

		api.POST("/bookings", c.createBooking)
		api.POST("/bookings/:id/cancel", c.cancelBooking)
		api.GET("/bookings/user/:userId", c.getUserBookings)
		api.GET("/bookings/user/:userId/upcoming", c.getUpcomingBookings)
		api.GET("/bookings/user/:userId/past", c.getPastBookings)
		api.GET("/bookings/:id", c.getBooking)

		api.POST("/users", c.registerUser)
		api.GET("/users", c.getUsers)
		api.GET("/users/email/:email", c.getUserByEmail)
		api.GET("/users/:id", c.getUser)
	}
}

type SearchSlotsRequest struct {
	Mode           string `json:"mode" binding:"required"`
	Query          string `json:"query"`
	Specialization string `json:"specialization"`
	Date           string `json:"date" binding:"required"`
	HospitalID     *int64 `json:"hospitalId"`
	DoctorID       *int64 `json:"doctorId"`
}

type CreateBookingRequest struct {
	SlotID       int64  `json:"slotId" binding:"required"`
	UserID       int64  `json:"userId" binding:"required"`
	PatientNotes string `json:"patientNotes"`
}

func (c *BookingFlowController) getHospitals(ctx *gin.Context) {
	hospitals, err := c.searchUseCase.GetHospitals(ctx.Request.Context())
	c.respond(ctx, hospitals, hospitals != nil, err)
}

func (c *BookingFlowController) searchHospitals(ctx *gin.Context) {
	hospitals, err := c.searchUseCase.SearchHospitals(ctx.Request.Context(), ctx.Query("q"))
	if domain.IsErrorKind(err, domain.ErrorKindValidationFailure) {
		// Слишком короткий запрос показывает полный список, не ошибку
		hospitals, err = c.searchUseCase.GetHospitals(ctx.Request.Context())
	}
	c.respond(ctx, hospitals, hospitals != nil, err)
}

func (c *BookingFlowController) getHospitalsByCity(ctx *gin.Context) {
	hospitals, err := c.searchUseCase.GetHospitalsByCity(ctx.Request.Context(), ctx.Param("city"))
	c.respond(ctx, hospitals, hospitals != nil, err)
}

func (c *BookingFlowController) getHospital(ctx *gin.Context) {
	hospitalID, ok := c.pathID(ctx, "id")
	if !ok {
		return
	}

	hospital, err := c.searchUseCase.GetHospital(ctx.Request.Context(), hospitalID)
	c.respond(ctx, hospital, hospital != nil, err)
}

func (c *BookingFlowController) getDoctors(ctx *gin.Context) {
	var hospitalID *int64
	if raw := ctx.Query("hospitalId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hospital ID format"})
			return
		}
		hospitalID = &parsed
	}

	doctors, err := c.searchUseCase.GetDoctors(ctx.Request.Context(), hospitalID, ctx.Query("specialization"))
	c.respond(ctx, doctors, doctors != nil, err)
}

func (c *BookingFlowController) getDoctor(ctx *gin.Context) {
	doctorID, ok := c.pathID(ctx, "id")
	if !ok {
		return
	}

	doctor, err := c.searchUseCase.GetDoctor(ctx.Request.Context(), doctorID)
	c.respond(ctx, doctor, doctor != nil, err)
}

func (c *BookingFlowController) getSpecializations(ctx *gin.Context) {
	specializations, err := c.searchUseCase.GetSpecializations(ctx.Request.Context())
	c.respond(ctx, specializations, specializations != nil, err)
}

func (c *BookingFlowController) searchSlots(ctx *gin.Context) {
	var req SearchSlotsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := json_types.ParseDate(req.Date)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	criteria := domain.SearchCriteria{
		Mode:           domain.SearchMode(req.Mode),
		Query:          req.Query,
		Specialization: req.Specialization,
		Date:           date,
		HospitalID:     req.HospitalID,
		DoctorID:       req.DoctorID,
	}

	slots, err := c.searchUseCase.SearchSlots(ctx.Request.Context(), criteria)
	c.respond(ctx, slots, slots != nil, err)
}

func (c *BookingFlowController) getAvailableDates(ctx *gin.Context) {
	doctorScoped := ctx.Query("doctorScoped") == "true"

	dates := c.searchUseCase.AvailableDates(doctorScoped)
	ctx.JSON(http.StatusOK, gin.H{"data": dates})
}

func (c *BookingFlowController) getDoctorSlots(ctx *gin.Context) {
	doctorID, ok := c.pathID(ctx, "id")
	if !ok {
		return
	}

	slots, err := c.searchUseCase.GetDoctorSlots(ctx.Request.Context(), doctorID)
	c.respond(ctx, slots, slots != nil, err)
}

func (c *BookingFlowController) createBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := c.bookingUseCase.CreateBooking(ctx.Request.Context(), req.SlotID, req.UserID, req.PatientNotes)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": booking})
}

func (c *BookingFlowController) cancelBooking(ctx *gin.Context) {
	bookingID, ok := c.pathID(ctx, "id")
	if !ok {
		return
	}

	userID, err := strconv.ParseInt(ctx.Query("userId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	booking, err := c.bookingUseCase.CancelBooking(ctx.Request.Context(), bookingID, userID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": booking})
}

func (c *BookingFlowController) getUserBookings(ctx *gin.Context) {
	userID, ok := c.pathID(ctx, "userId")
	if !ok {
		return
	}

	bookings, err := c.bookingUseCase.GetUserBookings(ctx.Request.Context(), userID)
	c.respond(ctx, bookings, bookings != nil, err)
}

func (c *BookingFlowController) getUpcomingBookings(ctx *gin.Context) {
	userID, ok := c.pathID(ctx, "userId")
	if !ok {
		return
	}

	bookings, err := c.bookingUseCase.GetUpcomingBookings(ctx.Request.Context(), userID)
	c.respond(ctx, bookings, bookings != nil, err)
}

func (c *BookingFlowController) getPastBookings(ctx *gin.Context) {
	userID, ok := c.pathID(ctx, "userId")
	if !ok {
		return
	}

	bookings, err := c.bookingUseCase.GetPastBookings(ctx.Request.Context(), userID)
	c.respond(ctx, bookings, bookings != nil, err)
}

func (c *BookingFlowController) getBooking(ctx *gin.Context) {
	bookingID, ok := c.pathID(ctx, "id")
	if !ok {
		return
	}

	booking, err := c.bookingUseCase.GetBooking(ctx.Request.Context(), bookingID)
	c.respond(ctx, booking, booking != nil, err)
}

func (c *BookingFlowController) registerUser(ctx *gin.Context) {
	var req domain.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := c.bookingUseCase.RegisterUser(ctx.Request.Context(), req)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": user})
}

func (c *BookingFlowController) getUsers(ctx *gin.Context) {
	users, err := c.searchUseCase.GetUsers(ctx.Request.Context())
	c.respond(ctx, users, users != nil, err)
}

func (c *BookingFlowController) getUser(ctx *gin.Context) {
	userID, ok := c.pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := c.searchUseCase.GetUser(ctx.Request.Context(), userID)
	c.respond(ctx, user, user != nil, err)
}

func (c *BookingFlowController) getUserByEmail(ctx *gin.Context) {
	user, err := c.searchUseCase.GetUserByEmail(ctx.Request.Context(), ctx.Param("email"))
	c.respond(ctx, user, user != nil, err)
}

func (c *BookingFlowController) pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return 0, false
	}
	return id, true
}

// respond отдает данные чтения. Ошибка вместе с ненулевыми данными -
// деградация: прежний снимок плюс индикатор stale, статус остается 200.
func (c *BookingFlowController) respond(ctx *gin.Context, data interface{}, hasData bool, err error) {
	if err == nil {
		ctx.JSON(http.StatusOK, gin.H{"data": data})
		return
	}

	if hasData {
		c.logger.Warn("http.respond.degraded", out.LogFields{
			"path":  ctx.Request.URL.Path,
			"error": err.Error(),
		})
		ctx.JSON(http.StatusOK, gin.H{
			"data":  data,
			"stale": true,
			"error": err.Error(),
		})
		return
	}

	c.respondError(ctx, err)
}

func (c *BookingFlowController) respondError(ctx *gin.Context, err error) {
	ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Kind {
	case domain.ErrorKindValidationFailure:
		return http.StatusBadRequest
	case domain.ErrorKindCapacityExceeded:
		return http.StatusConflict
	case domain.ErrorKindNetworkFailure:
		return http.StatusGatewayTimeout
	case domain.ErrorKindServerRejection:
		if domainErr.Status >= 400 && domainErr.Status < 600 {
			return domainErr.Status
		}
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

func (c *BookingFlowController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
				subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
