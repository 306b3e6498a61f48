package valuation

// Task exposes the fan-out task type to external tests
type Task = task

var FanOut = fanOut
