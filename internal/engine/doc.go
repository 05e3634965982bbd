// Package engine applies volume requests to the stream-properties file.
//
// An Engine owns one read/mutate/write cycle per call: it validates every
// request, loads the file once, applies the requests in order, saves once if
// anything changed, and then records each request in the optional history
// store. Check mode (WithDryRun) runs the same cycle but never saves.
//
// The cycle is not locked. Two processes writing the same file race and the
// last writer wins; Save's atomic rename only prevents torn files. Any future
// locking belongs in ApplyAll, around load and save.
package engine
