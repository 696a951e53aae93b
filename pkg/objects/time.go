package objects

// TimeAndDate is a decoded group 50 variation 1 object: an absolute
// timestamp in milliseconds since the UNIX epoch, used by outstation time
// synchronization (write) requests.
type TimeAndDate struct {
	Millis uint64
}

func EncodeTimeAndDate(t TimeAndDate) []byte {
	return EncodeAbsolute48(t.Millis)
}

func DecodeTimeAndDate(data []byte) TimeAndDate {
	return TimeAndDate{Millis: DecodeAbsolute48(data[:6])}
}
