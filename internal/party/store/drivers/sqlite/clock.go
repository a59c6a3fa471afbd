package sqlite

import "time"

// nowUTC stamps updated_at columns the service layer does not pass in.
var nowUTC = func() time.Time { return time.Now().UTC() }
