// Package mocks holds testify mocks shared across package tests.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/zjrosen/acro/internal/glossary"
)

// MockQuerier is a testify mock of query.Querier.
type MockQuerier struct {
	mock.Mock
}

// NewMockQuerier creates a MockQuerier whose expectations are asserted at
// test cleanup.
func NewMockQuerier(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQuerier {
	m := &MockQuerier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockQuerier_Expecter builds typed expectations.
type MockQuerier_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation builder.
func (m *MockQuerier) EXPECT() *MockQuerier_Expecter {
	return &MockQuerier_Expecter{mock: &m.Mock}
}

// Resolve provides a mock function.
func (m *MockQuerier) Resolve(id string, classes []string) (string, bool) {
	ret := m.Called(id, classes)
	return ret.String(0), ret.Bool(1)
}

// MockQuerier_Resolve_Call wraps a Resolve expectation.
type MockQuerier_Resolve_Call struct {
	*mock.Call
}

// Resolve expects a call to Resolve.
func (e *MockQuerier_Expecter) Resolve(id any, classes any) *MockQuerier_Resolve_Call {
	return &MockQuerier_Resolve_Call{Call: e.mock.On("Resolve", id, classes)}
}

// Return sets the return values.
func (c *MockQuerier_Resolve_Call) Return(text string, ok bool) *MockQuerier_Resolve_Call {
	c.Call.Return(text, ok)
	return c
}

// ListAcronyms provides a mock function.
func (m *MockQuerier) ListAcronyms() []glossary.Summary {
	ret := m.Called()
	items, _ := ret.Get(0).([]glossary.Summary)
	return items
}

// MockQuerier_ListAcronyms_Call wraps a ListAcronyms expectation.
type MockQuerier_ListAcronyms_Call struct {
	*mock.Call
}

// ListAcronyms expects a call to ListAcronyms.
func (e *MockQuerier_Expecter) ListAcronyms() *MockQuerier_ListAcronyms_Call {
	return &MockQuerier_ListAcronyms_Call{Call: e.mock.On("ListAcronyms")}
}

// Return sets the return values.
func (c *MockQuerier_ListAcronyms_Call) Return(items []glossary.Summary) *MockQuerier_ListAcronyms_Call {
	c.Call.Return(items)
	return c
}

// ListClasses provides a mock function.
func (m *MockQuerier) ListClasses() []string {
	ret := m.Called()
	classes, _ := ret.Get(0).([]string)
	return classes
}

// MockQuerier_ListClasses_Call wraps a ListClasses expectation.
type MockQuerier_ListClasses_Call struct {
	*mock.Call
}

// ListClasses expects a call to ListClasses.
func (e *MockQuerier_Expecter) ListClasses() *MockQuerier_ListClasses_Call {
	return &MockQuerier_ListClasses_Call{Call: e.mock.On("ListClasses")}
}

// Return sets the return values.
func (c *MockQuerier_ListClasses_Call) Return(classes []string) *MockQuerier_ListClasses_Call {
	c.Call.Return(classes)
	return c
}
