// Package params defines the parameter descriptors components declare for
// their construction, and the Args bag their constructors receive.
//
// A descriptor tells two different consumers what they need: the builder
// reads the host Type, nullability and default to convert configuration
// literals, while the candidate-space explorer and tuner exporter read the
// Kind with its range, choices or capability.
package params
