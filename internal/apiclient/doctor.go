package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/consultafacil/portal-api/internal/model"
)

// SearchDoctors filters the directory by specialty and free-text query.
func (c *Client) SearchDoctors(ctx context.Context, filters model.DoctorSearchFilters) ([]model.Doctor, error) {
	query := url.Values{}
	if filters.Specialty != "" {
		query.Set("specialty", filters.Specialty)
	}
	if filters.Query != "" {
		query.Set("search", filters.Query)
	}

	resp, err := c.do(ctx, http.MethodGet, "/api/doctor/search", query, nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, c.fail(resp)
	}
	return decodeDoctors(resp.body), nil
}

// GetDoctor fetches a single doctor record.
func (c *Client) GetDoctor(ctx context.Context, id string) (*model.Doctor, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/doctor/"+id, nil, nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, c.fail(resp)
	}
	doc := decodeDoctor(resp.body)
	if doc == nil {
		return nil, c.fail(&response{status: http.StatusNotFound, body: resp.body})
	}
	return doc, nil
}

// Specialties enumerates the valid specialty filter values.
func (c *Client) Specialties(ctx context.Context) ([]string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/doctor/specialties", nil, nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, c.fail(resp)
	}
	return decodeSpecialties(resp.body), nil
}
