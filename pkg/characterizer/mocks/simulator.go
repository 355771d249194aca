package mocks

import "github.com/stretchr/testify/mock"

// Simulator mock
type Simulator struct {
	mock.Mock
}

// Run provides a mock function with given fields: stimulusPath
func (_m *Simulator) Run(stimulusPath string) error {
	ret := _m.Called(stimulusPath)

	var r0 error
	if rf, ok := ret.Get(0).(func(string) error); ok {
		r0 = rf(stimulusPath)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Measure provides a mock function with given fields: category, measName
func (_m *Simulator) Measure(category string, measName string) (float64, bool) {
	ret := _m.Called(category, measName)

	var r0 float64
	if rf, ok := ret.Get(0).(func(string, string) float64); ok {
		r0 = rf(category, measName)
	} else {
		r0 = ret.Get(0).(float64)
	}

	var r1 bool
	if rf, ok := ret.Get(1).(func(string, string) bool); ok {
		r1 = rf(category, measName)
	} else {
		r1 = ret.Get(1).(bool)
	}

	return r0, r1
}
