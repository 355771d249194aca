package mocks

import "github.com/stretchr/testify/mock"

// Trimmer mock
type Trimmer struct {
	mock.Mock
}

// Trim provides a mock function with given fields: probeAddress, probeBit
func (_m *Trimmer) Trim(probeAddress string, probeBit int) (string, error) {
	ret := _m.Called(probeAddress, probeBit)

	var r0 string
	if rf, ok := ret.Get(0).(func(string, int) string); ok {
		r0 = rf(probeAddress, probeBit)
	} else {
		r0 = ret.Get(0).(string)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(string, int) error); ok {
		r1 = rf(probeAddress, probeBit)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
