package client

// GraphQL documents sent by the CLI. Field selections match what the
// storefront web app requests for the same screens.

const LoginMutation = `
mutation Login($email: String!, $password: String!) {
  login(email: $email, password: $password) {
    token
    user {
      id
      email
      name
    }
  }
}`

// LogoutMutation takes no input; its result is discarded.
const LogoutMutation = `
mutation Logout {
  logout
}`

const MeQuery = `
query Me {
  me {
    id
    email
    name
  }
}`

const UserAddressesQuery = `
query UserAddresses {
  userAddresses {
    id
    fullName
    phone
    addressLine1
    addressLine2
    city
    state
    country
    postalCode
    isDefault
  }
}`

const CreateAddressMutation = `
mutation CreateAddress($userId: ID!, $input: AddressInput!) {
  createAddress(userId: $userId, input: $input) {
    id
    fullName
    addressLine1
    city
    state
    country
    postalCode
  }
}`
