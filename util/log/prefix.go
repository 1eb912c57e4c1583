package log

// debugPrefix marks lines written by Debug and Debugf.
const debugPrefix = "[DEBUG] "
