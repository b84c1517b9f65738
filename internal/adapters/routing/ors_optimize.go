package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"fleet-assignment-service/internal/domain"
	"fleet-assignment-service/internal/platform/obs"
	"fleet-assignment-service/internal/ports"
)

type optimizationJob struct {
	ID       int       `json:"id"`
	Location []float64 `json:"location"`
}

type optimizationVehicle struct {
	ID      int       `json:"id"`
	Profile string    `json:"profile"`
	Start   []float64 `json:"start"`
	End     []float64 `json:"end"`
}

type optimizationRequest struct {
	Jobs     []optimizationJob     `json:"jobs"`
	Vehicles []optimizationVehicle `json:"vehicles"`
	Options  struct {
		Geometry bool `json:"g"`
	} `json:"options"`
}

type optimizationResponse struct {
	Routes []struct {
		Steps []struct {
			Type string `json:"type"`
			Job  int    `json:"job"`
		} `json:"steps"`
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
	} `json:"routes"`
	Unassigned []struct {
		ID int `json:"id"`
	} `json:"unassigned"`
}

// Optimize submits a single-vehicle multi-stop problem to the ORS
// optimization endpoint: the depot opens and closes the loop, every stop is a
// job. The returned StopOrder indexes the submitted stops. A response that
// leaves jobs unassigned is an error; the caller falls back to local
// sequencing.
func (o *ORSClient) Optimize(ctx context.Context, depot domain.Coordinates, stops []domain.Coordinates) (_ ports.OptimizedRoute, err error) {
	defer obs.Time(o.log, "ors.optimize")(&err)

	if len(stops) == 0 {
		return ports.OptimizedRoute{}, nil
	}

	body := optimizationRequest{
		Jobs:     make([]optimizationJob, 0, len(stops)),
		Vehicles: []optimizationVehicle{{ID: 1, Profile: o.profile, Start: depot.CoordsToList(), End: depot.CoordsToList()}},
	}
	body.Options.Geometry = true

	// Job IDs are 1-based stop indexes.
	for i, s := range stops {
		body.Jobs = append(body.Jobs, optimizationJob{ID: i + 1, Location: s.CoordsToList()})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ports.OptimizedRoute{}, fmt.Errorf("marshal optimization request: %w", err)
	}

	endpoint := o.baseURL + "/optimization"
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.OptimizedRoute{}, fmt.Errorf("optimization request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded optimizationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.OptimizedRoute{}, fmt.Errorf("decode optimization response: %w", err)
	}

	if len(decoded.Routes) != 1 {
		return ports.OptimizedRoute{}, fmt.Errorf("expected 1 route, got %d", len(decoded.Routes))
	}
	if len(decoded.Unassigned) > 0 {
		return ports.OptimizedRoute{}, fmt.Errorf("optimization left %d stops unassigned", len(decoded.Unassigned))
	}

	route := decoded.Routes[0]
	out := ports.OptimizedRoute{
		DistanceKm:    route.Distance / 1000,
		DurationHours: route.Duration / 3600,
		Geometry:      route.Geometry,
	}
	for _, step := range route.Steps {
		if step.Type != "job" {
			continue
		}
		if step.Job < 1 || step.Job > len(stops) {
			return ports.OptimizedRoute{}, fmt.Errorf("optimization returned unknown job id %d", step.Job)
		}
		out.StopOrder = append(out.StopOrder, step.Job-1)
	}

	return out, nil
}
