package complaints

import (
	"strings"
	"testing"
)

func TestComplaintRequestSanitize(t *testing.T) {
	req := complaintRequest{
		Title:       "Blight in <b>maize</b>",
		Type:        "Pest Attack<script>x()</script>",
		Description: "<p>Leaves are wilting.</p><script>bad()</script>",
		Location:    "Plot 7 <img src=x>",
	}
	req.sanitize()

	for name, v := range map[string]string{
		"title": req.Title, "type": req.Type, "location": req.Location,
	} {
		if strings.Contains(v, "<") {
			t.Errorf("%s not stripped: %q", name, v)
		}
	}
	if strings.Contains(req.Description, "script") {
		t.Errorf("description kept script: %q", req.Description)
	}
	if !strings.Contains(req.Description, "Leaves are wilting") {
		t.Errorf("description lost content: %q", req.Description)
	}
}

func TestPublicComplaintRequestSanitizesName(t *testing.T) {
	req := publicComplaintRequest{
		Name:        "Juma <script>alert(1)</script>Odhiambo",
		Title:       "Locust swarm",
		Type:        "Pest Attack",
		Description: "Swarm spotted near the river.",
		Location:    "Westfield",
	}
	req.sanitize()

	if strings.Contains(req.Name, "<") || strings.Contains(req.Name, "script") {
		t.Errorf("submitter name not stripped: %q", req.Name)
	}
	if !strings.Contains(req.Name, "Juma") || !strings.Contains(req.Name, "Odhiambo") {
		t.Errorf("submitter name lost content: %q", req.Name)
	}
}
