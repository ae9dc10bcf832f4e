package session

// ZeroFirstTimestamp shifts every stream of every device so that the
// earliest timestamp across the session becomes offset. Only column 0
// changes.
func ZeroFirstTimestamp(devices []Device, offset int64) []Device {
	firsts, _ := boundsOf(devices)
	if len(firsts) == 0 {
		return devices
	}

	t0 := minOf(firsts) - float64(offset)
	return mapDevices(devices, func(d Device) Device {
		if !d.HasBounds() {
			return d
		}
		streams := make(map[MessageType]Table, numMessageTypes)
		for _, t := range AllMessageTypes() {
			streams[t] = d.streams[t].shiftTime(t0)
		}
		return d.WithStreams(streams)
	})
}
