package v1

type AtomliftClient struct {
	Transport  *Transport
	Auth       *AuthEndpoint
	Complaints *ComplaintEndpoint
	AMC        *AMCEndpoint
	Customers  *CustomerEndpoint
	Leave      *LeaveEndpoint
	Materials  *MaterialEndpoint
	Travel     *TravelEndpoint
	Attendance *AttendanceEndpoint
}

// NewAtomliftClient initializes the API client. All endpoints share one transport.
func NewAtomliftClient(baseURL string, tokens TokenSource, opts ...Option) *AtomliftClient {
	t := NewTransport(baseURL, tokens, opts...)
	return &AtomliftClient{
		Transport:  t,
		Auth:       &AuthEndpoint{transport: t},
		Complaints: &ComplaintEndpoint{transport: t},
		AMC:        &AMCEndpoint{transport: t},
		Customers:  &CustomerEndpoint{transport: t},
		Leave:      &LeaveEndpoint{transport: t},
		Materials:  &MaterialEndpoint{transport: t},
		Travel:     &TravelEndpoint{transport: t},
		Attendance: &AttendanceEndpoint{transport: t},
	}
}
