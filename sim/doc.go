// Package sim provides the time-stepped simulation engine for open queueing
// networks.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - station.go: admission (device, queue, reject) and per-tick service
//   - routing.go: weighted successor selection and the failure cascade
//   - simulator.go: the minimum-delta step loop, checkpoints and the horizon
//
// # Lifecycle
//
// A Simulator moves through Building, Sealed, Running and Finished. Stations,
// devices and links are added through the Builder while Building. Seal
// discovers every station reachable from the producer's entry station and
// rejects networks with unreachable stations. Run advances until the clock
// reaches the total time; Result snapshots the statistics.
//
// Stations live in an arena owned by the Network and refer to each other by
// StationID, so successor and failure links may form arbitrary cycles.
//
// # Randomness
//
// Each device, the producer and the router draw from their own stream of a
// PartitionedRNG, so a run is reproducible from its seed.
//
// Sub-packages:
//   - sim/scenario/: YAML scenario files and built-in presets
//   - sim/trace/: decision trace recording
package sim
