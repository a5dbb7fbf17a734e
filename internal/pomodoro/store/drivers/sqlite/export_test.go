package sqlite

var WithDefaults = withDefaults
