package scenario

// Built-in network presets. Each returns a valid Scenario ready for Run.

func uniform(low, high float64) DistSpec {
	return DistSpec{Type: "uniform", Params: map[string]float64{"low": low, "high": high}}
}

// PresetFork splits one station's output 2:1 between two downstream
// stations. serviceHigh bounds the uniform service time of every device.
func PresetFork(seed int64, capacity int, serviceHigh float64) *Scenario {
	service := []DeviceSpec{{Count: 1, Service: uniform(1, serviceHigh)}}
	return &Scenario{
		Version: "1", Seed: seed, TotalTime: 10000, CheckpointPeriod: 10,
		Producer: ProducerSpec{Entry: "p1", Interarrival: uniform(2, 3)},
		Stations: []StationSpec{
			{ID: "p1", QueueCapacity: capacity, Devices: service,
				Next: []EdgeSpec{{To: "p2", Weight: 2}, {To: "p3", Weight: 1}}},
			{ID: "p2", QueueCapacity: capacity, Devices: service},
			{ID: "p3", QueueCapacity: capacity, Devices: service},
		},
	}
}

// PresetFailureRing chains three stations with a slow middle one; every
// station fails over to the next and the last fails back to the entry.
func PresetFailureRing(seed int64, capacity int, serviceHigh float64) *Scenario {
	fast := []DeviceSpec{{Count: 1, Service: uniform(1, serviceHigh)}}
	return &Scenario{
		Version: "1", Seed: seed, TotalTime: 10000, CheckpointPeriod: 10,
		Producer: ProducerSpec{Entry: "p1", Interarrival: uniform(2, 3)},
		Stations: []StationSpec{
			{ID: "p1", QueueCapacity: capacity, Devices: fast,
				Next: []EdgeSpec{{To: "p2", Weight: 1}}, OnFailure: "p2"},
			{ID: "p2", QueueCapacity: capacity,
				Devices: []DeviceSpec{{Count: 1, Service: uniform(100, 1000)}},
				Next:    []EdgeSpec{{To: "p3", Weight: 1}}, OnFailure: "p3"},
			{ID: "p3", QueueCapacity: capacity, Devices: fast, OnFailure: "p1"},
		},
	}
}

// PresetFailureChain feeds one station whose rejections walk a chain of
// five overflow stations that closes back on the entry.
func PresetFailureChain(seed int64) *Scenario {
	service := []DeviceSpec{{Count: 1, Service: uniform(10, 100)}}
	station := func(id, onFailure string) StationSpec {
		return StationSpec{ID: id, QueueCapacity: 2, Devices: service, OnFailure: onFailure}
	}
	entry := station("p1", "p3")
	entry.Next = []EdgeSpec{{To: "p2", Weight: 1}}
	return &Scenario{
		Version: "1", Seed: seed, TotalTime: 10000, CheckpointPeriod: 100,
		Producer: ProducerSpec{Entry: "p1", Interarrival: uniform(1, 2)},
		Stations: []StationSpec{
			entry,
			station("p2", "p1"),
			station("p3", "p4"),
			station("p4", "p5"),
			station("p5", "p6"),
			station("p6", "p1"),
		},
	}
}

// Presets maps preset names accepted by the CLI to their constructors with
// default parameters.
var Presets = map[string]func(seed int64) *Scenario{
	"fork":          func(seed int64) *Scenario { return PresetFork(seed, 2, 4) },
	"failure-ring":  func(seed int64) *Scenario { return PresetFailureRing(seed, 2, 4) },
	"failure-chain": PresetFailureChain,
}
