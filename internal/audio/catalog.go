package audio

// ListDevices returns the input-capable devices of the backend's first host API.
func ListDevices(b Backend) ([]Device, error) {
	infos, err := b.Devices()
	if err != nil {
		return nil, &EnumerationError{Err: err}
	}

	result := make([]Device, 0, len(infos))
	for i, d := range infos {
		if d.MaxInputChannels > 0 {
			result = append(result, Device{Name: d.Name, Index: i})
		}
	}

	return result, nil
}
