package baseline

import "testing"

func TestParametersDefaults(t *testing.T) {
	p := NewParameters()
	if p.MaxWidth != DefaultMaxWidth || p.MaxHeight != DefaultMaxHeight {
		t.Errorf("defaults = %dx%d, want %dx%d", p.MaxWidth, p.MaxHeight, DefaultMaxWidth, DefaultMaxHeight)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParametersInterface(t *testing.T) {
	p := NewParameters()

	p.SetParameter("max_width", 1024)
	p.SetParameter("max_height", 768)
	if p.MaxWidth != 1024 || p.MaxHeight != 768 {
		t.Errorf("limits = %dx%d, want 1024x768", p.MaxWidth, p.MaxHeight)
	}
	if got := p.GetParameter("max_width"); got != 1024 {
		t.Errorf("GetParameter(max_width) = %v, want 1024", got)
	}
	if got := p.GetParameter("max_height"); got != 768 {
		t.Errorf("GetParameter(max_height) = %v, want 768", got)
	}

	// Unknown names round-trip through the generic parameter store.
	p.SetParameter("vendor", "acme")
	if got := p.GetParameter("vendor"); got != "acme" {
		t.Errorf("GetParameter(vendor) = %v, want acme", got)
	}
	if got := p.GetParameter("absent"); got != nil {
		t.Errorf("GetParameter(absent) = %v, want nil", got)
	}
}

func TestParametersValidateResets(t *testing.T) {
	p := NewParameters().WithMaxDimensions(-1, 0)
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if p.MaxWidth != DefaultMaxWidth || p.MaxHeight != DefaultMaxHeight {
		t.Errorf("limits after Validate = %dx%d, want defaults", p.MaxWidth, p.MaxHeight)
	}
}
