package client

import (
	"encoding/json"
	"fmt"
	"time"

	"medbook/pkg/model"
)

// BookingClient drives the booking API over HTTP. Used by the integration
// tests and by operational tooling.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *BookingClient) Add(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/bookings", body)
}

func (c *BookingClient) Cancel(body any) (*Response, error) {
	return c.httpClient.DELETE("/api/v1/bookings", body)
}

func (c *BookingClient) NextForPatient(patientID int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/bookings/patient/%d/next", patientID)
	return c.httpClient.GET(path)
}

func (c *BookingClient) WaitForHealthy(maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(maxWait)
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var booking model.Booking
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json:\n%+v\n%s", resp.ToString(), err)
	}

	return &booking, nil
}

func (c *BookingClient) DecodeNextBooking(resp *Response) (*model.NextBooking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode next booking wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var next model.NextBooking
	if err := json.Unmarshal(wrapper.Data, &next); err != nil {
		return nil, fmt.Errorf("could not decode next booking json:\n%+v\n%s", resp.ToString(), err)
	}

	return &next, nil
}
