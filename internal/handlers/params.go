package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cast"
	"github.com/tunride/ride-backend/internal/models"
	"github.com/tunride/ride-backend/internal/services"
)

func badParam(field, message string) *services.ValidationError {
	return &services.ValidationError{Field: field, Code: "invalid_parameter", Message: message}
}

// pathUUID parses a uuid path parameter
func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, badParam(name, name+" must be a valid UUID")
	}
	return id, nil
}

// queryInt64 returns nil when the parameter is absent
func queryInt64(c *gin.Context, name string) (*int64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := cast.ToInt64E(raw)
	if err != nil {
		return nil, badParam(name, name+" must be an integer")
	}
	return &v, nil
}

func queryFloat(c *gin.Context, name string) (*float64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil, badParam(name, name+" must be a number")
	}
	return &v, nil
}

func queryDate(c *gin.Context, name string) (*models.Date, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, badParam(name, name+" must be formatted YYYY-MM-DD")
	}
	return &d, nil
}

// queryPage reads limit and offset, leaving defaults to the service
func queryPage(c *gin.Context) (limit, offset int, err error) {
	if raw := c.Query("limit"); raw != "" {
		if limit, err = cast.ToIntE(raw); err != nil {
			return 0, 0, badParam("limit", "limit must be an integer")
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if offset, err = cast.ToIntE(raw); err != nil {
			return 0, 0, badParam("offset", "offset must be an integer")
		}
	}
	return limit, offset, nil
}

// tripFilterFromQuery builds a TripFilter from the listing query string
func tripFilterFromQuery(c *gin.Context) (models.TripFilter, error) {
	var (
		filter models.TripFilter
		err    error
	)

	if filter.FromCityID, err = queryInt64(c, "from_city_id"); err != nil {
		return filter, err
	}
	if filter.ToCityID, err = queryInt64(c, "to_city_id"); err != nil {
		return filter, err
	}
	if filter.MinFare, err = queryFloat(c, "min_fare"); err != nil {
		return filter, err
	}
	if filter.MaxFare, err = queryFloat(c, "max_fare"); err != nil {
		return filter, err
	}
	if filter.DepartureDate, err = queryDate(c, "departure_date"); err != nil {
		return filter, err
	}
	if filter.Limit, filter.Offset, err = queryPage(c); err != nil {
		return filter, err
	}

	return filter, nil
}
