package httpGateway

const apiLevel = "/api/v1/"
const internalStatus = apiLevel + "stat"
const sessions = apiLevel + "sessions"
const session = apiLevel + "session/{id:[0-9]+}"
const commands = apiLevel + "commands"
const types = apiLevel + "types"
