package skeleton

import (
	"galaxy-maker-server/internal/random"
	"galaxy-maker-server/internal/view"
)

var haloColor = view.RGBA(255, 255, 255, 0.18)

func coreColor(s *random.Sampler) view.Color {
	t := s.Float()
	switch {
	case t < 0.6:
		return view.RGBA(255, 255, 255, s.Uniform(0.25, 0.8))
	case t < 0.85:
		return view.RGBA(255, 230, 200, s.Uniform(0.25, 0.7))
	default:
		return view.RGBA(200, 220, 255, s.Uniform(0.2, 0.6))
	}
}

func coreColorCool(s *random.Sampler) view.Color {
	if s.Float() < 0.7 {
		return view.RGBA(220, 235, 255, s.Uniform(0.25, 0.8))
	}
	return view.RGBA(255, 255, 255, s.Uniform(0.25, 0.7))
}

func coreColorWarm(s *random.Sampler) view.Color {
	if s.Float() < 0.7 {
		return view.RGBA(255, 230, 200, s.Uniform(0.25, 0.8))
	}
	return view.RGBA(255, 255, 255, s.Uniform(0.25, 0.7))
}

func armColor(s *random.Sampler) view.Color {
	t := s.Float()
	switch {
	case t < 0.5:
		return view.RGBA(200, 220, 255, s.Uniform(0.18, 0.65))
	case t < 0.8:
		return view.RGBA(255, 255, 255, s.Uniform(0.18, 0.6))
	default:
		return view.RGBA(180, 255, 220, s.Uniform(0.12, 0.5))
	}
}

func armColorWarm(s *random.Sampler) view.Color {
	t := s.Float()
	switch {
	case t < 0.5:
		return view.RGBA(255, 220, 180, s.Uniform(0.18, 0.65))
	case t < 0.8:
		return view.RGBA(255, 255, 255, s.Uniform(0.18, 0.6))
	default:
		return view.RGBA(255, 180, 200, s.Uniform(0.12, 0.5))
	}
}
