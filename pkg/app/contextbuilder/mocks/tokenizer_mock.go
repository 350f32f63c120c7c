package mocks

import (
	"github.com/stretchr/testify/mock"
)

type Tokenizer struct {
	mock.Mock
}

func (m *Tokenizer) Count(text string) int {
	args := m.Called(text)
	return args.Int(0)
}
